package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCaseEmail_EscapesAndFormats(t *testing.T) {
	out := RenderCaseEmail("Case status changed: A <vs> B", "line one\nline two & three")

	assert.Contains(t, out, "Case status changed: A &lt;vs&gt; B")
	assert.Contains(t, out, "line one<br>line two &amp; three")
	assert.False(t, strings.Contains(out, "<vs>"))
}
