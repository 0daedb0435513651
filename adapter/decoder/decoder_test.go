package decoder

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

type employee struct {
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Available bool    `json:"is_available"`
	Hours     float64 `json:"available_hours"`
}

type DecoderTestSuite struct {
	suite.Suite
	d *Decoder
}

func (s *DecoderTestSuite) SetupTest() {
	s.d = NewDecoder()
}

func (s *DecoderTestSuite) TestDecodeUsesJSONTags() {
	var tgt employee
	err := s.d.Decode(domain.Record{"name": "Ann", "age": 30, "is_available": true, "available_hours": 12.5}, &tgt)
	s.NoError(err)
	s.Equal(employee{Name: "Ann", Age: 30, Available: true, Hours: 12.5}, tgt)
}

func (s *DecoderTestSuite) TestDecodeTarget() {
	s.ErrorIs(s.d.Decode(domain.Record{}, nil), domain.ErrTargetNil)
	s.ErrorIs(s.d.Decode(domain.Record{}, employee{}), domain.ErrNonPointer)

	var nilPtr *employee
	s.ErrorIs(s.d.Decode(domain.Record{}, nilPtr), domain.ErrTargetNil)
}

func (s *DecoderTestSuite) TestDecodeError() {
	var tgt employee
	err := s.d.Decode(domain.Record{"age": []any{1}}, &tgt)
	s.Error(err)
	s.Contains(err.Error(), "decoding")
}

func (s *DecoderTestSuite) TestCustomTag() {
	type row struct {
		Name string `db:"full_name"`
	}
	d := NewDecoder(WithTagName("db"))
	var tgt row
	s.NoError(d.Decode(domain.Record{"full_name": "Bob"}, &tgt))
	s.Equal("Bob", tgt.Name)

	// empty names are ignored
	s.Equal(DefaultTagName, NewDecoder(WithTagName("")).tagName)
}

func (s *DecoderTestSuite) TestToRecordsFromStructs() {
	recs, err := s.d.ToRecords([]employee{
		{Name: "Ann", Age: 30},
		{Name: "Bob", Available: true},
	})
	s.NoError(err)
	s.Len(recs, 2)
	s.Equal("Ann", recs[0]["name"])
	s.Equal(30, recs[0]["age"])
	s.Equal(true, recs[1]["is_available"])
}

func (s *DecoderTestSuite) TestToRecordsFromMaps() {
	src := []map[string]any{{"name": "Ann"}}
	recs, err := s.d.ToRecords(src)
	s.NoError(err)
	s.Equal([]domain.Record{{"name": "Ann"}}, recs)

	// records are copies
	recs[0]["name"] = "changed"
	s.Equal("Ann", src[0]["name"])
}

func (s *DecoderTestSuite) TestToRecordsInvalid() {
	_, err := s.d.ToRecords(employee{})
	s.ErrorIs(err, ErrNotSlice)

	recs, err := s.d.ToRecords(nil)
	s.NoError(err)
	s.Empty(recs)
}

func (s *DecoderTestSuite) TestScan() {
	var res []employee
	err := s.d.Scan([]domain.Record{
		{"name": "Ann", "age": 30.0},
		{"name": "Bob", "is_available": true},
	}, &res)
	s.NoError(err)
	s.Equal([]employee{{Name: "Ann", Age: 30}, {Name: "Bob", Available: true}}, res)

	var single employee
	s.ErrorIs(s.d.Scan(nil, &single), ErrNotSlice)
	s.ErrorIs(s.d.Scan(nil, res), domain.ErrNonPointer)
	s.ErrorIs(s.d.Scan(nil, nil), domain.ErrTargetNil)
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}
