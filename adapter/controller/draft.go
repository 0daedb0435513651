package controller

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// Draft is a transient copy of the groups of a view. Changes made to it are
// not visible anywhere until Commit is called.
type Draft struct {
	Groups []domain.Group

	view  string
	store domain.Store
}

// Draft returns an edit buffer with a copy of the current groups of view.
func (c *Controller) Draft(view string) *Draft {
	return &Draft{
		Groups: c.store.Query(view).Groups,
		view:   view,
		store:  c.store,
	}
}

// View returns the name of the view the draft belongs to.
func (d *Draft) View() string {
	return d.view
}

// Commit writes the draft groups back to the store.
func (d *Draft) Commit() {
	d.store.SetGroups(d.view, d.Groups)
}

// Discard replaces the draft groups with the current groups of the view.
func (d *Draft) Discard() {
	d.Groups = d.store.Query(d.view).Groups
}
