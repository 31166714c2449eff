// Package kouji audits a work-in-progress (未成工事) construction ledger
// across two accounting periods.
//
// A ledger lists one record per project code: its period-actual amount, its
// cumulative amount and, once the project is finished, its completion date.
// Comparing the ledger of the prior period (前期) with the ledger of the
// current period (当期) catches data-entry errors before the financial close:
// a project that vanished while still unfinished, an opening balance that does
// not match last year's closing balance, a completion date moved back into a
// closed year, and so on.
//
// The audit runs in three steps:
//   - Loading: [LoadLedger] reads a ledger from a CSV or XLSX export of the
//     accounting software (工事管理表), or from the canonical JSON-lines form.
//   - Classification: [Classify] partitions the ledger codes into incomplete,
//     future-completed and past-completed projects relative to the start of
//     the current period.
//   - Reconciliation: [Reconcile] compares both partitions through the rules
//     listed in [Categories] and returns every anomaly with its signed amount.
//
// The package is the foundation of the `wip` command-line tool. It holds no
// global state: every function works on the values it is given.
package kouji
