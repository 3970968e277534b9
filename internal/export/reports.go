package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/view"
)

// Default file names, one per screen.
const (
	DashboardFile    = "Stock_Status_Report.xlsx"
	ItemsFile        = "Items_List.xlsx"
	TransactionsFile = "Transactions_Report.xlsx"
)

// dashboardTable lists items as displayed on the dashboard.
func dashboardTable(items []inventory.Item) table {
	t := table{
		sheet: "Dashboard_Report",
		columns: []column{
			{"Product Name", 30},
			{"Quantity", 20},
			{"Alt Quantity", 20},
			{"Status", 15},
		},
	}
	for _, item := range items {
		status := cell{value: view.StatusOK, tone: success}
		if view.IsLow(item) {
			status = cell{value: view.StatusLow, tone: danger}
		}
		t.rows = append(t.rows, []cell{
			{value: item.Name},
			{value: view.FormatQuantity(item)},
			{value: view.FormatAltQuantity(item)},
			status,
		})
	}
	return t
}

// itemsTable lists the item master. Low-stock rows are red.
func itemsTable(items []inventory.Item) table {
	t := table{
		sheet: "Items_List",
		columns: []column{
			{"Item Name", 25},
			{"Primary Unit", 15},
			{"Alt Unit", 15},
			{"Conversion", 20},
			{"Alert Qty", 15},
		},
	}
	for _, item := range items {
		tn := plain
		if view.IsLow(item) {
			tn = danger
		}
		alt := view.Placeholder
		if item.HasAltUnit() {
			alt = string(item.AltUnit)
		}
		t.rows = append(t.rows, []cell{
			{value: item.Name, tone: tn},
			{value: string(item.Unit), tone: tn},
			{value: alt, tone: tn},
			{value: view.FormatConversion(item), tone: tn},
			{value: item.AlertQty, tone: tn},
		})
	}
	return t
}

// transactionsTable lists ledger rows. The type column is green for IN and
// red for OUT.
func transactionsTable(rows []view.LedgerRow) table {
	t := table{
		sheet: "Transactions",
		columns: []column{
			{"Date", 15},
			{"Type", 10},
			{"Item", 25},
			{"Qty", 10},
			{"Rate", 12},
			{"Alt Qty", 12},
			{"Remarks", 40},
		},
	}
	for _, row := range rows {
		typ := cell{value: string(row.Type), tone: success}
		if row.Type == inventory.Out {
			typ.tone = danger
		}
		t.rows = append(t.rows, []cell{
			{value: row.Date.String()},
			typ,
			{value: row.Name},
			{value: row.Quantity.InexactFloat64()},
			{value: view.FormatRate(row.Transaction)},
			{value: view.FormatTxnAltQty(row.Transaction)},
			{value: row.Remarks},
		})
	}
	return t
}

// WriteDashboard streams the dashboard report for items, in the given order.
func WriteDashboard(w io.Writer, items []inventory.Item) error {
	return dashboardTable(items).writeTo(w)
}

// WriteItems streams the item list for items, in the given order.
func WriteItems(w io.Writer, items []inventory.Item) error {
	return itemsTable(items).writeTo(w)
}

// WriteTransactions streams the transactions report for rows, in the given order.
func WriteTransactions(w io.Writer, rows []view.LedgerRow) error {
	return transactionsTable(rows).writeTo(w)
}

// Exporter saves reports into a directory.
type Exporter struct {
	Dir string
	Now func() time.Time // nil uses time.Now
}

// Dashboard saves the dashboard report and returns its path.
func (e Exporter) Dashboard(items []inventory.Item) (string, error) {
	return e.save(DashboardFile, dashboardTable(items))
}

// Items saves the item list and returns its path.
func (e Exporter) Items(items []inventory.Item) (string, error) {
	return e.save(ItemsFile, itemsTable(items))
}

// Transactions saves the transactions report and returns its path.
func (e Exporter) Transactions(rows []view.LedgerRow) (string, error) {
	return e.save(TransactionsFile, transactionsTable(rows))
}

// DashboardSnapshot saves a timestamped dashboard report, for scheduled runs
// that must not overwrite each other.
func (e Exporter) DashboardSnapshot(items []inventory.Item) (string, error) {
	name := fmt.Sprintf("Stock_Status_Report_%s.xlsx", e.now().Format("20060102_1504"))
	return e.save(name, dashboardTable(items))
}

func (e Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Exporter) save(name string, t table) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := t.saveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
