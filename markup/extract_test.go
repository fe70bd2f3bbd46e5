package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantraven93/court-tracker-api/markup"
)

func TestExtractFieldTableCells(t *testing.T) {
	fragment := `<table><tr><td>Case Status</td><td>Disposed</td></tr></table>`
	assert.Equal(t, "Disposed", markup.ExtractField(fragment, "Case Status"))
}

func TestExtractFieldTableCellsWithSpacer(t *testing.T) {
	fragment := `<tr><td><b>Filing Date</b></td><td> : </td><td>01-02-2023</td></tr>`
	assert.Equal(t, "01-02-2023", markup.ExtractField(fragment, "Filing Date"))
}

func TestExtractFieldBoldLabel(t *testing.T) {
	fragment := `<p><strong>Coram :</strong> HON'BLE THE CHIEF JUSTICE</p>`
	assert.Equal(t, "HON'BLE THE CHIEF JUSTICE", markup.ExtractField(fragment, "Coram"))
}

func TestExtractFieldDefinitionList(t *testing.T) {
	fragment := `<dl><dt>Next Date</dt><dd>15-09-2025</dd></dl>`
	assert.Equal(t, "15-09-2025", markup.ExtractField(fragment, "Next Date"))
}

func TestExtractFieldPlainText(t *testing.T) {
	fragment := `Some preamble. Registered On: 12-04-2021 in the registry.`
	assert.Equal(t, "12-04-2021 in the registry.", markup.ExtractField(fragment, "Registered On"))
}

// The same label can appear in several shapes on one page; the table-cell
// pattern must win over the plain-text one.
func TestExtractFieldPriorityOrder(t *testing.T) {
	fragment := `Case Status: stale text value
<table><tr><td>Case Status</td><td>Pending</td></tr></table>`
	assert.Equal(t, "Pending", markup.ExtractField(fragment, "Case Status"))
}

func TestExtractFieldMissingLabel(t *testing.T) {
	assert.Equal(t, "", markup.ExtractField(`<td>Other</td><td>x</td>`, "Case Status"))
}

func TestExtractFieldDecodesEntities(t *testing.T) {
	fragment := `<td>Petitioner</td><td>RAM &amp; SONS&nbsp;LTD</td>`
	assert.Equal(t, "RAM & SONS LTD", markup.ExtractField(fragment, "Petitioner"))
}

func TestExtractTableRows(t *testing.T) {
	fragment := `<h3>Case History</h3>
<table>
<tr><td>Judge</td><td>Business Date</td><td>Purpose</td></tr>
<tr><td>District Judge I</td><td>01-03-2024</td><td>Evidence</td></tr>
<tr><td>District Judge I</td><td>22-04-2024</td><td>Arguments</td></tr>
</table>`

	rows := markup.ExtractTableRows(fragment, []string{"Case History"})
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"District Judge I", "01-03-2024", "Evidence"}, rows[0])
	assert.Equal(t, []string{"District Judge I", "22-04-2024", "Arguments"}, rows[1])
}

func TestExtractTableRowsSkipsHeaderRows(t *testing.T) {
	fragment := `Orders<table>
<tr><td>Sl No</td><td>Order Date</td></tr>
<tr><td>1</td><td>10-01-2024</td></tr>
</table>`

	rows := markup.ExtractTableRows(fragment, []string{"Orders"})
	assert.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][0])
}

func TestExtractTableRowsNoHeading(t *testing.T) {
	fragment := `<table><tr><td>1</td></tr></table>`
	assert.Nil(t, markup.ExtractTableRows(fragment, []string{"Case History"}))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "State vs Sharma", markup.StripTags(`<a href="/x"><b>State</b> vs <i>Sharma</i></a>`))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a b", markup.Clean("  a\n\t b  "))
}
