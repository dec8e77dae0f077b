package format

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// Time renders t according to a C-style strftime layout, the notation
// the date_format and folder_format options carry.
func Time(layout string, t time.Time) string {
	return strftime.Format(layout, t)
}
