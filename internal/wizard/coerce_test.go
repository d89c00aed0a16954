package wizard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CoerceSuite struct {
	suite.Suite
}

func TestCoerce(t *testing.T) {
	suite.Run(t, new(CoerceSuite))
}

func (s *CoerceSuite) TestToString() {
	v, err := toString(FieldPaymentReference, "REF-1")
	s.NoError(err)
	s.Equal("REF-1", v)

	v, err = toString(FieldPaymentReference, (*string)(nil))
	s.NoError(err)
	s.Empty(v)

	_, err = toString(FieldPaymentReference, map[string]any{"ref": 1})
	s.Error(err)
}

func (s *CoerceSuite) TestToBool() {
	b, err := toBool(FieldWithReceipt, "true")
	s.NoError(err)
	s.True(b)

	b, err = toBool(FieldWithReceipt, lo.ToPtr(true))
	s.NoError(err)
	s.True(b)

	_, err = toBool(FieldWithReceipt, "maybe")
	s.Error(err)
}

func (s *CoerceSuite) TestToInt() {
	tests := []struct {
		name    string
		value   any
		want    *int
		wantErr bool
	}{
		{name: "json number", value: float64(30), want: lo.ToPtr(30)},
		{name: "string", value: "12", want: lo.ToPtr(12)},
		{name: "json.Number", value: json.Number("7"), want: lo.ToPtr(7)},
		{name: "bool", value: true, want: lo.ToPtr(1)},
		{name: "empty", value: "", want: nil},
		{name: "nil", value: nil, want: nil},
		{name: "fraction", value: 1.5, wantErr: true},
		{name: "text", value: "ten", wantErr: true},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := toInt(FieldManualGracePeriod, tt.value)
			if tt.wantErr {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func (s *CoerceSuite) TestToTime() {
	want := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)

	for _, value := range []any{"2024-02-15", "2024-02-15T00:00:00Z", "2024-02-15T01:00:00+01:00", "2024-02-15T00:00", float64(want.UnixMilli()), want} {
		got, err := toTime(FieldDueDate, value)
		s.Require().NoError(err, "value %v", value)
		s.True(want.Equal(*got), "value %v got %v", value, got)
	}

	got, err := toTime(FieldDueDate, "")
	s.NoError(err)
	s.Nil(got)

	_, err = toTime(FieldDueDate, "31/01/2024")
	s.Error(err)
}
