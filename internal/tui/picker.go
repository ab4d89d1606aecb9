package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
)

// pickerRows is how many matches are shown at once.
const pickerRows = 8

type itemSource []storage.Item

func (s itemSource) String(i int) string { return s[i].Name }
func (s itemSource) Len() int            { return len(s) }

// picker is a fuzzy-filtered list of menu items.
type picker struct {
	items    []storage.Item
	query    string
	matches  []int // indexes into items, best first
	selected int
}

func newPicker(items []storage.Item) picker {
	p := picker{items: items}
	p.filter()
	return p
}

func (p *picker) filter() {
	p.matches = p.matches[:0]
	if strings.TrimSpace(p.query) == "" {
		for i := range p.items {
			p.matches = append(p.matches, i)
		}
	} else {
		for _, m := range fuzzy.FindFrom(p.query, itemSource(p.items)) {
			p.matches = append(p.matches, m.Index)
		}
	}
	if p.selected >= len(p.matches) {
		p.selected = 0
	}
}

func (p *picker) typeRune(r string) {
	p.query += r
	p.selected = 0
	p.filter()
}

func (p *picker) backspace() {
	if p.query == "" {
		return
	}
	runes := []rune(p.query)
	p.query = string(runes[:len(runes)-1])
	p.selected = 0
	p.filter()
}

func (p *picker) move(delta int) {
	if len(p.matches) == 0 {
		return
	}
	p.selected = (p.selected + delta + len(p.matches)) % len(p.matches)
}

// current is the highlighted item, if any.
func (p picker) current() (storage.Item, bool) {
	if p.selected < 0 || p.selected >= len(p.matches) {
		return storage.Item{}, false
	}
	return p.items[p.matches[p.selected]], true
}

func (p picker) view() string {
	var b strings.Builder
	b.WriteString(searchBoxStyle.Render("search: " + p.query + "▏"))
	b.WriteString("\n")
	if len(p.matches) == 0 {
		b.WriteString(gapStyle.Render("  no matching items"))
		return b.String()
	}

	start := 0
	if p.selected >= pickerRows {
		start = p.selected - pickerRows + 1
	}
	end := start + pickerRows
	if end > len(p.matches) {
		end = len(p.matches)
	}
	for i := start; i < end; i++ {
		it := p.items[p.matches[i]]
		row := it.Name + "  " + statLabelStyle.Render(it.Category)
		if i == p.selected {
			b.WriteString(selectedRowStyle.Render("› " + it.Name))
			b.WriteString("  " + statLabelStyle.Render(it.Category))
		} else {
			b.WriteString(rowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
