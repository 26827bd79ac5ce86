package builder

import (
	"fmt"
	"time"

	"github.com/wudi/simplepdf/ir/graph"
)

// Metadata fills the document information dictionary. Empty dates are
// replaced by the construction time.
type Metadata struct {
	Title        string `yaml:"title"`
	Author       string `yaml:"author"`
	Creator      string `yaml:"creator"`
	Producer     string `yaml:"producer"`
	Subject      string `yaml:"subject"`
	Keywords     string `yaml:"keywords"`
	CreationDate string `yaml:"creation_date"`
	ModDate      string `yaml:"mod_date"`
}

// FormatDate renders t as a date string, D:YYYYMMDDHHmmSS followed by the
// zone offset as +HH'mm'.
func FormatDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("D:%s%c%02d'%02d'", t.Format("20060102150405"), sign, offset/3600, offset/60%60)
}

func (m Metadata) values(now time.Time) []graph.Value {
	created, modified := m.CreationDate, m.ModDate
	if created == "" {
		created = FormatDate(now)
	}
	if modified == "" {
		modified = FormatDate(now)
	}
	return []graph.Value{
		graph.Text(m.Title),
		graph.Text(m.Author),
		graph.Text(m.Creator),
		graph.Text(m.Producer),
		graph.Text(m.Subject),
		graph.Text(m.Keywords),
		graph.Text(created),
		graph.Text(modified),
	}
}
