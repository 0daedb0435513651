package controller

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// Query returns a snapshot of the view query.
func (c *Controller) Query(view string) domain.Query {
	return c.store.Query(view)
}

// Suggestions returns the field suggestions loaded for view.
func (c *Controller) Suggestions(view string) []domain.Suggestion {
	return c.store.Suggestions(view)
}

// Status returns the shared loading/error status.
func (c *Controller) Status() domain.Status {
	return c.store.Status()
}

// AddGroup appends a new empty group to view and returns it.
func (c *Controller) AddGroup(view string) domain.Group {
	return c.store.AddGroup(view)
}

// UpdateGroup replaces the group of view at index.
func (c *Controller) UpdateGroup(view string, index int, g domain.Group) {
	c.store.UpdateGroup(view, index, g)
}

// RemoveGroup removes the group of view at index.
func (c *Controller) RemoveGroup(view string, index int) {
	c.store.RemoveGroup(view, index)
}

// ClearGroups removes every group of view.
func (c *Controller) ClearGroups(view string) {
	c.store.ClearGroups(view)
}

// SetGroups replaces the groups of view.
func (c *Controller) SetGroups(view string, groups []domain.Group) {
	c.store.SetGroups(view, groups)
}

// SetSort sets the sort field and direction of view.
func (c *Controller) SetSort(view, field string, dir domain.SortDirection) {
	c.store.SetSort(view, field, dir)
}

// SetPageSize sets the page size of view and goes back to the first page.
func (c *Controller) SetPageSize(view string, size int) {
	c.store.SetPageSize(view, size)
}

// SetPageNumber sets the current page of view.
func (c *Controller) SetPageNumber(view string, n int) {
	c.store.SetPageNumber(view, n)
}
