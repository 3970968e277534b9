// Package export writes the dashboard, item and transaction screens to
// .xlsx workbooks with excelize. Each report has a blue header row and one
// row per record in exactly the order the caller displays them. Status and
// movement columns are colored: red for low stock and OUT, green for OK and IN.
//
// Scheduler runs the dashboard report on a cron schedule, saving
// timestamped files so runs never overwrite each other.
package export
