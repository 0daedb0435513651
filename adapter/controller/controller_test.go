package controller

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/location"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/store"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

const view = "assignments"

type gatewayMock struct{ mock.Mock }

// FetchSuggestions implements domain.Gateway.
func (g *gatewayMock) FetchSuggestions(ctx context.Context, view string) ([]domain.Suggestion, error) {
	call := g.Called(ctx, view)
	s, _ := call.Get(0).([]domain.Suggestion)
	return s, call.Error(1)
}

// FetchConfig implements domain.Gateway.
func (g *gatewayMock) FetchConfig(ctx context.Context, view string) (*domain.Query, error) {
	call := g.Called(ctx, view)
	q, _ := call.Get(0).(*domain.Query)
	return q, call.Error(1)
}

// SaveConfig implements domain.Gateway.
func (g *gatewayMock) SaveConfig(ctx context.Context, view string, q domain.Query) error {
	return g.Called(ctx, view, q).Error(0)
}

// ApplyFilters implements domain.Gateway.
func (g *gatewayMock) ApplyFilters(ctx context.Context, view string, req domain.FilterRequest, records []domain.Record) ([]domain.Record, error) {
	call := g.Called(ctx, view, req, records)
	r, _ := call.Get(0).([]domain.Record)
	return r, call.Error(1)
}

type metricsMock struct{ mock.Mock }

// ObserveGateway implements domain.Metrics.
func (m *metricsMock) ObserveGateway(op string, d time.Duration, err error) {
	m.Called(op, d, err)
}

// StaleResult implements domain.Metrics.
func (m *metricsMock) StaleResult(view string) {
	m.Called(view)
}

// DecodeError implements domain.Metrics.
func (m *metricsMock) DecodeError(param string) {
	m.Called(param)
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

type ControllerTestSuite struct {
	suite.Suite
	store domain.Store
	gw    *gatewayMock
	loc   *location.History
	c     *Controller
}

var suggestions = []domain.Suggestion{
	{Field: "name", Label: "Name", Type: domain.TypeText},
	{Field: "age", Label: "Age", Type: domain.TypeNumber},
}

func (s *ControllerTestSuite) SetupTest() {
	s.store = store.NewStore()
	s.gw = new(gatewayMock)
	s.loc = location.NewHistory("tab=2")
	s.c = NewController(s.store, s.gw, WithLocation(s.loc))
}

func (s *ControllerTestSuite) TearDownTest() {
	s.c.Close()
}

func (s *ControllerTestSuite) expectLoad(cfg *domain.Query) {
	s.gw.On("FetchSuggestions", mock.Anything, mock.Anything).Return(suggestions, nil)
	s.gw.On("FetchConfig", mock.Anything, mock.Anything).Return(cfg, nil)
}

func (s *ControllerTestSuite) open() {
	s.expectLoad(nil)
	s.Require().NoError(s.c.Open(context.Background(), view))
}

func effective(id string) domain.Group {
	g := domain.NewGroup(id)
	g.Conditions = append(g.Conditions, domain.Condition{Field: "name", Operator: domain.Contains, Value: "jo"})
	return g
}

func records(names ...string) []domain.Record {
	res := make([]domain.Record, len(names))
	for n, name := range names {
		res[n] = domain.Record{"name": name}
	}
	return res
}

func (s *ControllerTestSuite) TestOpenMergesURLOverSavedConfig() {
	s.loc = location.NewHistory("tab=2&sortOrder=desc")
	s.c = NewController(s.store, s.gw, WithLocation(s.loc))

	cfg := domain.DefaultQuery()
	cfg.SortField = "name"
	cfg.PageSize = 20
	s.expectLoad(&cfg)

	s.Equal(domain.Uninitialized, s.c.State(view))
	s.NoError(s.c.Open(context.Background(), view))
	s.Equal(domain.Ready, s.c.State(view))
	s.Equal(view, s.c.Active())

	q := s.store.Query(view)
	s.Equal("name", q.SortField)
	s.Equal(domain.Desc, q.SortDirection)
	s.Equal(20, q.PageSize)
	s.Equal(suggestions, s.store.Suggestions(view))
	s.False(s.store.Status().Loading)

	s.Equal("tab=2&sortOrder=desc&sortBy=name&pageSize=20", s.loc.Query())
	s.Equal(1, s.loc.Len())
}

func (s *ControllerTestSuite) TestOpenFailure() {
	s.gw.On("FetchSuggestions", mock.Anything, view).Return(nil, errors.New("connection refused")).Once()

	err := s.c.Open(context.Background(), view)
	var errT *domain.ErrTransport
	s.Require().ErrorAs(err, &errT)
	s.Equal(domain.OpFetchSuggestions, errT.Op)
	s.Equal(domain.Uninitialized, s.c.State(view))

	st := s.store.Status()
	s.False(st.Loading)
	s.Contains(st.LastError, "connection refused")

	// retry
	s.expectLoad(nil)
	s.NoError(s.c.Reload(context.Background(), view))
	s.Equal(domain.Ready, s.c.State(view))
	s.Empty(s.store.Status().LastError)
}

func (s *ControllerTestSuite) TestConfigFailureKeepsState() {
	s.open()
	s.store.SetSort(view, "age", domain.Desc)

	s.gw.ExpectedCalls = nil
	s.gw.On("FetchSuggestions", mock.Anything, view).Return([]domain.Suggestion{}, nil)
	s.gw.On("FetchConfig", mock.Anything, view).Return(nil, errors.New("timeout"))

	s.Error(s.c.Reload(context.Background(), view))
	s.Equal(domain.Ready, s.c.State(view))
	s.Equal(suggestions, s.store.Suggestions(view))
	s.Equal("age", s.store.Query(view).SortField)
}

func (s *ControllerTestSuite) TestOpenWhileLoading() {
	release := make(chan struct{})
	started := make(chan struct{})
	s.gw.On("FetchSuggestions", mock.Anything, view).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(suggestions, nil)
	s.gw.On("FetchConfig", mock.Anything, view).Return(nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.c.Open(context.Background(), view) }()
	<-started

	s.Equal(domain.Loading, s.c.State(view))
	s.True(s.store.Status().Loading)
	s.ErrorIs(s.c.Open(context.Background(), view), domain.ErrViewNotReady)

	close(release)
	s.NoError(<-done)
	s.Equal(domain.Ready, s.c.State(view))
}

func (s *ControllerTestSuite) TestStoreChangeUpdatesURL() {
	s.open()

	var events []domain.Navigation
	s.loc.Subscribe(func(_ string, nav domain.Navigation) {
		events = append(events, nav)
	})

	s.store.SetSort(view, "age", domain.Desc)
	s.Equal("tab=2&sortBy=age&sortOrder=desc", s.loc.Query())
	s.Equal([]domain.Navigation{domain.Replace}, events)

	// same encoding, no write
	s.store.SetPageNumber(view, 0)
	s.Len(events, 1)
	s.Equal(1, s.loc.Len())
}

func (s *ControllerTestSuite) TestClearGroupsKeepsOtherParams() {
	s.open()

	s.store.SetGroups(view, []domain.Group{effective("a")})
	s.Contains(s.loc.Query(), "tab=2&filters=")

	s.store.ClearGroups(view)
	s.Equal("tab=2", s.loc.Query())
}

func (s *ControllerTestSuite) TestNonEffectiveGroupsStayOutOfURL() {
	s.open()
	s.store.AddGroup(view)
	s.Equal("tab=2", s.loc.Query())
}

func (s *ControllerTestSuite) TestNavigation() {
	s.open()

	var changes int
	s.store.Subscribe(view, func(string, domain.Query) { changes++ })

	s.loc.Push("tab=2&sortBy=name&pageSize=10")
	q := s.store.Query(view)
	s.Equal("name", q.SortField)
	s.Equal(10, q.PageSize)
	s.Equal(1, changes)
	s.Equal("tab=2&sortBy=name&pageSize=10", s.loc.Query())

	s.True(s.loc.Back())
	s.Equal(domain.DefaultQuery(), s.store.Query(view))
	s.Equal(2, changes)
	s.Equal(2, s.loc.Len())
	s.Equal("tab=2", s.loc.Query())

	s.True(s.loc.Forward())
	s.Equal("name", s.store.Query(view).SortField)
}

func (s *ControllerTestSuite) TestNavigationWithConfiguredDefaults() {
	defaults := func() domain.Query {
		q := domain.DefaultQuery()
		q.SortDirection = domain.Desc
		q.PageSize = 25
		return q
	}
	s.store = store.NewStore(store.WithDefaults(defaults))
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithDefaults(defaults))
	s.open()
	s.Equal("tab=2", s.loc.Query())

	// package defaults differ from the configured ones and must be written
	s.store.SetPageSize(view, domain.DefaultPageSize)
	s.store.SetSort(view, "name", domain.Asc)
	s.Contains(s.loc.Query(), "pageSize=50")
	s.Contains(s.loc.Query(), "sortOrder=asc")

	s.loc.Push("tab=3")
	s.Equal(defaults(), s.store.Query(view))

	s.True(s.loc.Back())
	q := s.store.Query(view)
	s.Equal("name", q.SortField)
	s.Equal(domain.Asc, q.SortDirection)
	s.Equal(domain.DefaultPageSize, q.PageSize)
}

func (s *ControllerTestSuite) TestInvalidURLIgnored() {
	m := new(metricsMock)
	m.On("ObserveGateway", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("DecodeError", "pageSize").Once()
	m.On("DecodeError", "filters").Once()

	s.loc = location.NewHistory("filters=%7Bbroken&pageSize=abc&sortBy=name")
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithMetrics(m))
	s.open()

	q := s.store.Query(view)
	s.Equal("name", q.SortField)
	s.Equal(domain.DefaultPageSize, q.PageSize)
	s.Empty(q.Groups)
	s.Equal("sortBy=name", s.loc.Query())
	m.AssertExpectations(s.T())
}

func (s *ControllerTestSuite) TestApplyWithoutEffectiveGroups() {
	s.open()
	s.store.AddGroup(view)

	recs := records("c", "a", "b")
	res, err := s.c.ApplyToDataset(context.Background(), view, recs)
	s.NoError(err)
	s.Equal(recs, res.Records)
	s.Equal(3, res.Total)
	s.Equal(1, res.TotalPages)
	s.gw.AssertNotCalled(s.T(), "ApplyFilters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ControllerTestSuite) TestApplyFilters() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a"), domain.NewGroup("b")})
	s.store.SetSort(view, "name", domain.Desc)
	s.store.SetPageSize(view, 2)

	recs := records("jo", "joe", "ann", "john")
	req := domain.FilterRequest{Groups: []domain.Group{effective("a")}, Combinator: domain.And}
	s.gw.On("ApplyFilters", mock.Anything, view, req, recs).Return(records("jo", "joe", "john"), nil).Once()

	var notified []domain.Result
	s.c.OnResult(view, func(_ string, res domain.Result) { notified = append(notified, res) })

	res, err := s.c.ApplyToDataset(context.Background(), view, recs)
	s.NoError(err)
	s.Equal(records("john", "joe"), res.Records)
	s.Equal(3, res.Total)
	s.Equal(2, res.TotalPages)
	s.Equal(1, res.PageNumber)
	s.Equal(2, res.PageSize)
	s.Equal([]domain.Result{res}, notified)

	got, ok := s.c.Result(view)
	s.True(ok)
	s.Equal(res, got)
	s.gw.AssertExpectations(s.T())
}

func (s *ControllerTestSuite) TestGroupCombinator() {
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithGroupCombinator(domain.Or))
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a"), effective("b")})

	recs := records("jo")
	req := domain.FilterRequest{Groups: []domain.Group{effective("a"), effective("b")}, Combinator: domain.Or}
	s.gw.On("ApplyFilters", mock.Anything, view, req, recs).Return(recs, nil).Once()

	_, err := s.c.ApplyToDataset(context.Background(), view, recs)
	s.NoError(err)
	s.gw.AssertExpectations(s.T())
}

func (s *ControllerTestSuite) TestLastIssuedWins() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})

	first := records("first")
	second := records("second")
	release := make(chan struct{})
	started := make(chan struct{})
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, first).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(first, nil).Once()
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, second).Return(second, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.c.ApplyToDataset(context.Background(), view, first)
		done <- err
	}()
	<-started

	res, err := s.c.ApplyToDataset(context.Background(), view, second)
	s.NoError(err)
	s.Equal(second, res.Records)
	s.True(s.store.Status().Loading)

	close(release)
	s.ErrorIs(<-done, domain.ErrStaleResult)
	s.False(s.store.Status().Loading)

	got, _ := s.c.Result(view)
	s.Equal(second, got.Records)
}

func (s *ControllerTestSuite) TestStaleFailureIsQuiet() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})

	first := records("first")
	second := records("second")
	release := make(chan struct{})
	started := make(chan struct{})
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, first).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(nil, errors.New("boom")).Once()
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, second).Return(second, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.c.ApplyToDataset(context.Background(), view, first)
		done <- err
	}()
	<-started
	_, err := s.c.ApplyToDataset(context.Background(), view, second)
	s.NoError(err)

	close(release)
	s.ErrorIs(<-done, domain.ErrStaleResult)
	s.Empty(s.store.Status().LastError)
}

func (s *ControllerTestSuite) TestApplyFailure() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, mock.Anything).Return(nil, errors.New("bad gateway"))

	_, err := s.c.ApplyToDataset(context.Background(), view, records("a"))
	var errT *domain.ErrTransport
	s.Require().ErrorAs(err, &errT)
	s.Equal(domain.OpApplyFilters, errT.Op)
	s.Equal(view, errT.View)

	st := s.store.Status()
	s.False(st.Loading)
	s.Contains(st.LastError, "bad gateway")

	_, ok := s.c.Result(view)
	s.False(ok)
}

func (s *ControllerTestSuite) TestInactiveView() {
	s.open()
	s.NoError(s.c.Open(context.Background(), "employees"))
	s.Equal("employees", s.c.Active())

	_, err := s.c.ApplyToDataset(context.Background(), view, records("a"))
	s.ErrorIs(err, domain.ErrViewInactive)

	// switching back projects the view query
	s.store.SetSort(view, "name", domain.Asc)
	s.Equal("tab=2", s.loc.Query())
	s.NoError(s.c.Activate(view))
	s.Equal("tab=2&sortBy=name", s.loc.Query())

	s.ErrorIs(s.c.Activate("patients"), domain.ErrViewNotReady)
}

func (s *ControllerTestSuite) TestInactiveFailureIsQuiet() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})

	release := make(chan struct{})
	started := make(chan struct{})
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(nil, errors.New("bad gateway")).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.c.ApplyToDataset(context.Background(), view, records("a"))
		done <- err
	}()
	<-started

	s.NoError(s.c.Open(context.Background(), "employees"))
	close(release)

	s.ErrorIs(<-done, domain.ErrViewInactive)
	s.Empty(s.store.Status().LastError)
	s.False(s.store.Status().Loading)
	s.Equal("employees", s.c.Active())
}

func (s *ControllerTestSuite) TestNotReady() {
	_, err := s.c.ApplyToDataset(context.Background(), view, nil)
	s.ErrorIs(err, domain.ErrViewNotReady)
	s.ErrorIs(s.c.Save(context.Background(), view), domain.ErrViewNotReady)
	_, err = s.c.Reapply(context.Background(), view)
	s.ErrorIs(err, domain.ErrViewNotReady)
}

func (s *ControllerTestSuite) TestCloseView() {
	s.open()
	s.c.CloseView(view)
	s.Equal(domain.Uninitialized, s.c.State(view))
	s.Empty(s.c.Active())

	s.store.SetSort(view, "name", domain.Asc)
	s.Equal("tab=2", s.loc.Query())
}

func (s *ControllerTestSuite) TestSave() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a"), domain.NewGroup("b")})
	s.store.SetSort(view, "name", domain.Desc)

	expected := s.store.Query(view)
	expected.Groups = []domain.Group{effective("a")}
	s.gw.On("SaveConfig", mock.Anything, view, expected).Return(nil).Once()

	s.NoError(s.c.Save(context.Background(), view))
	s.gw.AssertExpectations(s.T())
}

func (s *ControllerTestSuite) TestSaveFailureKeepsQuery() {
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})
	before := s.store.Query(view)
	s.gw.On("SaveConfig", mock.Anything, view, mock.Anything).Return(errors.New("disk full"))

	s.Error(s.c.Save(context.Background(), view))
	s.Equal(before, s.store.Query(view))
	s.Contains(s.store.Status().LastError, "disk full")
}

func (s *ControllerTestSuite) TestOnResultCancel() {
	s.open()
	var calls int
	cancel := s.c.OnResult(view, func(string, domain.Result) { calls++ })

	_, err := s.c.ApplyToDataset(context.Background(), view, records("a"))
	s.NoError(err)
	cancel()
	cancel()
	_, err = s.c.Reapply(context.Background(), view)
	s.NoError(err)
	s.Equal(1, calls)
}

func (s *ControllerTestSuite) TestAutoApply() {
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithAutoApply(true))
	s.open()

	results := make(chan domain.Result, 1)
	s.c.OnResult(view, func(_ string, res domain.Result) { results <- res })

	_, err := s.c.ApplyToDataset(context.Background(), view, records("b", "a"))
	s.NoError(err)
	<-results

	s.store.SetSort(view, "name", domain.Asc)
	select {
	case res := <-results:
		s.Equal(records("a", "b"), res.Records)
	case <-time.After(time.Second):
		s.Fail("result not reapplied")
	}
}

func (s *ControllerTestSuite) TestReapplyUsesLastRecords() {
	s.open()
	s.store.SetSort(view, "name", domain.Asc)

	_, err := s.c.ApplyToDataset(context.Background(), view, records("b"))
	s.NoError(err)
	_, err = s.c.ApplyToDataset(context.Background(), view, records("c", "a"))
	s.NoError(err)

	res, err := s.c.Reapply(context.Background(), view)
	s.NoError(err)
	s.Equal(records("a", "c"), res.Records)
}

func (s *ControllerTestSuite) TestAutoApplyLogsFailure() {
	var buf syncBuffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithAutoApply(true), WithLogger(log))
	s.open()
	s.store.SetGroups(view, []domain.Group{effective("a")})

	recs := records("jo")
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, recs).Return(recs, nil).Once()
	s.gw.On("ApplyFilters", mock.Anything, view, mock.Anything, recs).Return(nil, errors.New("bad gateway"))

	_, err := s.c.ApplyToDataset(context.Background(), view, recs)
	s.NoError(err)

	s.store.SetSort(view, "name", domain.Desc)
	s.Eventually(func() bool {
		return strings.Contains(buf.String(), "reapplying filters")
	}, time.Second, 10*time.Millisecond)
	s.Contains(s.store.Status().LastError, "bad gateway")
}

func (s *ControllerTestSuite) TestDraft() {
	s.open()
	d := s.c.Draft(view)
	s.Equal(view, d.View())
	d.Groups = append(d.Groups, effective("a"))
	s.Empty(s.store.Query(view).Groups)

	d.Discard()
	s.Empty(d.Groups)

	d.Groups = append(d.Groups, effective("a"))
	d.Commit()
	s.Equal([]domain.Group{effective("a")}, s.store.Query(view).Groups)
	s.Contains(s.loc.Query(), "filters=")
}

func (s *ControllerTestSuite) TestMutations() {
	s.open()

	g := s.c.AddGroup(view)
	s.NotEmpty(g.ID)
	g.Conditions = effective(g.ID).Conditions
	s.c.UpdateGroup(view, 0, g)
	s.Equal([]domain.Group{g}, s.c.Query(view).Groups)
	s.Contains(s.loc.Query(), "filters=")

	s.c.SetSort(view, "age", domain.Desc)
	s.c.SetPageNumber(view, 4)
	s.Contains(s.loc.Query(), "sortBy=age")
	s.Contains(s.loc.Query(), "pageNumber=4")

	s.c.SetPageSize(view, 10)
	q := s.c.Query(view)
	s.Equal(10, q.PageSize)
	s.Equal(1, q.PageNumber)

	s.c.RemoveGroup(view, 0)
	s.Empty(s.c.Query(view).Groups)
	s.c.SetGroups(view, []domain.Group{effective("a"), effective("b")})
	s.Len(s.c.Query(view).Groups, 2)
	s.c.ClearGroups(view)
	s.Empty(s.c.Query(view).Groups)
	s.NotContains(s.loc.Query(), "filters=")

	s.Equal(suggestions, s.c.Suggestions(view))
	s.False(s.c.Status().Loading)
}

func (s *ControllerTestSuite) TestMetrics() {
	m := new(metricsMock)
	m.On("ObserveGateway", domain.OpFetchSuggestions, mock.Anything, nil).Once()
	m.On("ObserveGateway", domain.OpFetchConfig, mock.Anything, nil).Once()
	s.c = NewController(s.store, s.gw, WithLocation(s.loc), WithMetrics(m))
	s.open()
	m.AssertExpectations(s.T())
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
