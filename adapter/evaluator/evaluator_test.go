package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

type M = domain.Record

type comparerMock struct{ mock.Mock }

// Compare implements domain.Comparer.
func (c *comparerMock) Compare(a any, b any) (int, error) {
	call := c.Called(a, b)
	return call.Int(0), call.Error(1)
}

type EvaluatorTestSuite struct {
	suite.Suite
	e *Evaluator
}

func (s *EvaluatorTestSuite) SetupTest() {
	s.e = NewEvaluator().(*Evaluator)
}

func ids(records []domain.Record) []any {
	res := make([]any, len(records))
	for n, r := range records {
		res[n] = r["id"]
	}
	return res
}

func fs(records []domain.Record) []any {
	res := make([]any, len(records))
	for n, r := range records {
		res[n] = r["f"]
	}
	return res
}

func (s *EvaluatorTestSuite) TestSortIsStable() {
	records := []domain.Record{{"f": 1, "id": "a"}, {"f": 1, "id": "b"}}
	s.Equal([]any{"a", "b"}, ids(s.e.Sort(records, "f", domain.Asc)))
	s.Equal([]any{"a", "b"}, ids(s.e.Sort(records, "f", domain.Desc)))

	records = []domain.Record{
		{"f": 2, "id": "a"}, {"f": 1, "id": "b"}, {"f": 2, "id": "c"},
		{"f": 1, "id": "d"}, {"f": 2, "id": "e"},
	}
	s.Equal([]any{"b", "d", "a", "c", "e"}, ids(s.e.Sort(records, "f", domain.Asc)))
	s.Equal([]any{"a", "c", "e", "b", "d"}, ids(s.e.Sort(records, "f", domain.Desc)))
}

func (s *EvaluatorTestSuite) TestNilsAlwaysLast() {
	records := []domain.Record{{"f": nil}, {"f": 2}, {"f": 1}}
	s.Equal([]any{1, 2, nil}, fs(s.e.Sort(records, "f", domain.Asc)))
	s.Equal([]any{2, 1, nil}, fs(s.e.Sort(records, "f", domain.Desc)))

	// unset fields go last too, keeping their input order
	records = []domain.Record{{"id": "x"}, {"f": "b", "id": "y"}, {"f": nil, "id": "z"}, {"f": "a", "id": "w"}}
	s.Equal([]any{"w", "y", "x", "z"}, ids(s.e.Sort(records, "f", domain.Asc)))
	s.Equal([]any{"y", "w", "x", "z"}, ids(s.e.Sort(records, "f", domain.Desc)))
}

func (s *EvaluatorTestSuite) TestSortNested() {
	records := []domain.Record{
		{"id": "a", "employee": M{"name": "Zoe"}},
		{"id": "b", "employee": M{"name": "Ann"}},
	}
	s.Equal([]any{"b", "a"}, ids(s.e.Sort(records, "employee.name", domain.Asc)))
}

func (s *EvaluatorTestSuite) TestSortDoesNotModifyInput() {
	records := []domain.Record{{"f": 2}, {"f": 1}}
	_ = s.e.Sort(records, "f", domain.Asc)
	s.Equal([]any{2, 1}, fs(records))

	// no field is a copy in input order
	res := s.e.Sort(records, "", domain.Asc)
	s.Equal([]any{2, 1}, fs(res))
}

func (s *EvaluatorTestSuite) TestSortMixedTypes() {
	records := []domain.Record{{"f": true}, {"f": "b"}, {"f": 2}, {"f": "a"}, {"f": 1}}
	s.Equal([]any{1, 2, "a", "b", true}, fs(s.e.Sort(records, "f", domain.Asc)))
	s.Equal([]any{true, "b", "a", 2, 1}, fs(s.e.Sort(records, "f", domain.Desc)))
}

func (s *EvaluatorTestSuite) TestComparerErrorKeepsOrder() {
	cm := new(comparerMock)
	cm.On("Compare", mock.Anything, mock.Anything).Return(0, errors.New("cannot compare"))
	s.e = NewEvaluator(WithComparer(cm)).(*Evaluator)

	records := []domain.Record{{"f": struct{}{}, "id": "a"}, {"f": struct{}{}, "id": "b"}, {"f": struct{}{}, "id": "c"}}
	s.Equal([]any{"a", "b", "c"}, ids(s.e.Sort(records, "f", domain.Asc)))
	cm.AssertCalled(s.T(), "Compare", mock.Anything, mock.Anything)
}

func (s *EvaluatorTestSuite) TestPaginate() {
	records := make([]domain.Record, 125)
	for n := range records {
		records[n] = domain.Record{"id": n}
	}

	s.Equal(3, s.e.TotalPages(len(records), 50))
	s.Len(s.e.Paginate(records, 1, 50), 50)
	s.Len(s.e.Paginate(records, 2, 50), 50)

	last := s.e.Paginate(records, 3, 50)
	s.Len(last, 25)
	s.Equal(100, last[0]["id"])
	s.Equal(124, last[24]["id"])

	s.Empty(s.e.Paginate(records, 4, 50))
	s.NotNil(s.e.Paginate(records, 4, 50))
	s.Empty(s.e.Paginate(records, 0, 50))
	s.Empty(s.e.Paginate(records, 1, 0))
	s.Empty(s.e.Paginate(nil, 1, 50))
}

func (s *EvaluatorTestSuite) TestTotalPages() {
	s.Zero(s.e.TotalPages(0, 50))
	s.Zero(s.e.TotalPages(0, 1))
	s.Equal(1, s.e.TotalPages(1, 50))
	s.Equal(1, s.e.TotalPages(50, 50))
	s.Equal(2, s.e.TotalPages(51, 50))
	s.Zero(s.e.TotalPages(10, 0))
}

func (s *EvaluatorTestSuite) TestEvaluate() {
	records := []domain.Record{{"f": 3}, {"f": nil}, {"f": 1}, {"f": 2}}

	q := domain.DefaultQuery()
	q.SortField = "f"
	q.SortDirection = domain.Desc
	q.PageSize = 2
	q.PageNumber = 1

	res := s.e.Evaluate(q, records)
	s.Equal([]any{3, 2}, fs(res.Records))
	s.Equal(4, res.Total)
	s.Equal(2, res.TotalPages)
	s.Equal(1, res.PageNumber)
	s.Equal(2, res.PageSize)

	q.PageNumber = 2
	s.Equal([]any{1, nil}, fs(s.e.Evaluate(q, records).Records))

	// without sort field records keep the input order
	q.SortField = ""
	q.PageNumber = 1
	s.Equal([]any{3, nil}, fs(s.e.Evaluate(q, records).Records))
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}
