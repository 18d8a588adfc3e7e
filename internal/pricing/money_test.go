package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "1000", want: 100000},
		{in: "1000.00", want: 100000},
		{in: "1234.56", want: 123456},
		{in: "0.5", want: 50},
		{in: ".75", want: 75},
		{in: "-12.34", want: -1234},
		{in: "+3", want: 300},
		{in: "", wantErr: true},
		{in: "12.345", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1,000", wantErr: true},
		{in: ".", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "1234.56", Cents(123456).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.00", Cents(-300).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	type doc struct {
		Rate *Money `json:"rate,omitempty"`
	}

	data, err := json.Marshal(doc{Rate: Ptr(Cents(130000))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":1300.00}`, string(data))

	var back doc
	require.NoError(t, json.Unmarshal([]byte(`{"rate":1300}`), &back))
	require.NotNil(t, back.Rate)
	assert.Equal(t, Cents(130000), *back.Rate)

	var quoted doc
	require.NoError(t, json.Unmarshal([]byte(`{"rate":"99.95"}`), &quoted))
	require.NotNil(t, quoted.Rate)
	assert.Equal(t, Cents(9995), *quoted.Rate)
}

func TestProfitAndLoss(t *testing.T) {
	assert.Equal(t, Cents(30000), ProfitAndLoss(Ptr(Cents(130000)), Ptr(Cents(100000))))
	assert.Equal(t, Cents(-500), ProfitAndLoss(Ptr(Cents(9500)), Ptr(Cents(10000))))
	assert.Equal(t, Cents(130000), ProfitAndLoss(Ptr(Cents(130000)), nil))
	assert.Equal(t, Cents(0), ProfitAndLoss(nil, nil))
}
