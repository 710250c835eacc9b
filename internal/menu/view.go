package menu

import "github.com/pokeclicker-automation/autoseller/internal/settings"

type ContainerView struct {
	ID       int           `json:"id"`
	Hidden   bool          `json:"hidden"`
	Elements []ElementView `json:"elements"`
}

type ElementView struct {
	Type    string     `json:"type"`
	Label   string     `json:"label,omitempty"`
	Key     string     `json:"key,omitempty"`
	Tooltip string     `json:"tooltip,omitempty"`
	Enabled bool       `json:"enabled"`
	Panel   *PanelView `json:"panel,omitempty"`
}

type PanelView struct {
	Title   string        `json:"title"`
	Toggles []ElementView `json:"toggles"`
}

// Snapshot renders the menu with the current stored values, hidden containers included.
func (r *Registry) Snapshot() []ContainerView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]ContainerView, 0, len(r.containers))
	for _, c := range r.containers {
		cv := ContainerView{ID: c.id, Hidden: c.Hidden(), Elements: []ElementView{}}
		for _, e := range c.elements {
			switch el := e.(type) {
			case separator:
				cv.Elements = append(cv.Elements, ElementView{Type: "separator"})
			case *Button:
				ev := r.toggleView("button", el.Toggle)
				if el.panel != nil {
					pv := &PanelView{Title: el.panel.title, Toggles: []ElementView{}}
					for _, t := range el.panel.toggles {
						pv.Toggles = append(pv.Toggles, r.toggleView("toggle", *t))
					}
					ev.Panel = pv
				}
				cv.Elements = append(cv.Elements, ev)
			}
		}
		views = append(views, cv)
	}

	return views
}

func (r *Registry) toggleView(kind string, t Toggle) ElementView {
	return ElementView{
		Type:    kind,
		Label:   t.Label,
		Key:     t.Key,
		Tooltip: t.Tooltip,
		Enabled: settings.Enabled(r.store, t.Key),
	}
}
