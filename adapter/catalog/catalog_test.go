package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

type CatalogTestSuite struct {
	suite.Suite
	c *Catalog
}

func (s *CatalogTestSuite) SetupTest() {
	s.c = NewCatalog(WithBuiltin())
}

func (s *CatalogTestSuite) TestBuiltinViews() {
	s.Equal([]string{Assignments, Employees, Patients}, s.c.Views())

	sg, err := s.c.FetchSuggestions(context.Background(), Employees)
	s.NoError(err)
	s.Len(sg, 6)
	s.Equal("name", sg[0].Field)
	s.Equal(domain.TypeSelect, sg[1].Type)
	s.Len(sg[1].Options, 3)
	s.Equal(168, sg[4].Max)
}

func (s *CatalogTestSuite) TestUnknownView() {
	_, err := s.c.FetchSuggestions(context.Background(), "rota")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *CatalogTestSuite) TestCopies() {
	sg, err := s.c.FetchSuggestions(context.Background(), Assignments)
	s.Require().NoError(err)
	sg[2].Options[0].Label = "changed"
	sg[0].Field = "changed"

	again, err := s.c.FetchSuggestions(context.Background(), Assignments)
	s.Require().NoError(err)
	s.Equal("employee_name", again[0].Field)
	s.Equal("Medicine", again[2].Options[0].Label)

	// patients share the option list of assignments
	patients, err := s.c.FetchSuggestions(context.Background(), Patients)
	s.Require().NoError(err)
	s.Equal("Medicine", patients[1].Options[0].Label)
}

func (s *CatalogTestSuite) TestSet() {
	c := NewCatalog(WithView("rota", []domain.Suggestion{{Field: "day", Type: domain.TypeDate}}))
	s.Equal([]string{"rota"}, c.Views())

	c.Set("rota", []domain.Suggestion{})
	sg, err := c.FetchSuggestions(context.Background(), "rota")
	s.NoError(err)
	s.Empty(sg)
	s.NotNil(sg)
}

func (s *CatalogTestSuite) TestReplace() {
	views := map[string][]domain.Suggestion{
		"rota": {{Field: "day", Type: domain.TypeDate}},
	}
	s.c.Replace(views)
	s.Equal([]string{"rota"}, s.c.Views())

	_, err := s.c.FetchSuggestions(context.Background(), Assignments)
	s.ErrorIs(err, domain.ErrNotFound)

	views["rota"][0].Field = "changed"
	sg, err := s.c.FetchSuggestions(context.Background(), "rota")
	s.NoError(err)
	s.Equal("day", sg[0].Field)
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
