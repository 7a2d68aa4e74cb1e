package normalize

import (
	"fmt"
	"strconv"
	"time"
)

// CellText renders a raw spreadsheet cell as trimmed text. Floats drop
// trailing zeros the way spreadsheet UIs display them, so 95.0 reads "95".
func CellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return CleanSpaces(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return CleanSpaces(fmt.Sprint(v))
	}
}
