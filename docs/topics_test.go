package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

// TestTopics checks that readme.md lists every topic, and only existing ones.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("readme.md lists %q: %v", topic, err)
		}
	}

	all, err := List()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	doc, err := Topics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		content, _ := Topic(topic)
		if !strings.Contains(doc, content) {
			t.Errorf("Topics(*) does not contain %q", topic)
		}
	}
	if _, err := Topics("audit", "missing"); err == nil {
		t.Error("Topics() with an unknown topic expected an error")
	}
}

// TestCodeBlocks runs the executable examples of the documentation.
func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the wip command")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	wip := buildWip(t, t.TempDir())
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			runBlocks(t, wip, file)
		})
	}
}

// Block is a fenced code block of a Markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildWip builds the wip command in dir and returns the path to the binary.
func buildWip(t *testing.T, dir string) string {
	t.Helper()
	output := filepath.Join(dir, "wip")
	if out, err := exec.Command("go", "build", "-o", output, "../wip/").CombinedOutput(); err != nil {
		t.Fatalf("failed to build wip command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown returns the executable blocks of a Markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		info := string(fcb.Info.Segment.Value(content))
		switch info {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    info,
			Content: body.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// blockRunner runs the blocks of a file in sequence.
type blockRunner struct {
	env            []string
	previousOutput string
	dir            string
}

func (r *blockRunner) run(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		got = strings.ReplaceAll(got, "\t", "        ")
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", block.File, block.Line, got, want, got, want)
		}
		return
	}
	if block.Type == bashSetup {
		r.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.dir
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if block.Type == bashRun {
		r.previousOutput = string(output)
	}
	if err == nil {
		return
	}
	if block.Type == bashCheck {
		t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		return
	}
	t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
}

// runBlocks executes the scenarios of a Markdown file with wip on the PATH.
func runBlocks(t *testing.T, wip, file string) {
	t.Helper()
	blocks := parseMarkdown(t, file)
	if len(blocks) == 0 {
		return
	}

	env := append(os.Environ(), fmt.Sprintf("PATH=%s%c%s", filepath.Dir(wip), os.PathListSeparator, os.Getenv("PATH")))
	// the developer's settings must not leak into the examples
	for _, name := range []string{"WIP_PRIOR", "WIP_CURRENT", "WIP_PERIOD_START", "WIP_CURRENCY", "WIP_ENCODING", "WIP_SHEET"} {
		env = append(env, name+"=")
	}

	r := blockRunner{env: env, dir: t.TempDir()}
	for _, block := range blocks {
		r.run(t, block)
	}
}
