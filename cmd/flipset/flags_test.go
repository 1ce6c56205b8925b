package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "ascending", value: "asc", want: "asc"},
		{name: "descending in upper case", value: "DESC", want: "desc"},
		{name: "unknown", value: "sideways", want: "asc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := orderFlag("asc")
			err := order.Set(tt.value)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, order.String())
			assert.Equal(t, "order", order.Type())
		})
	}
}

func TestCardList_invalidOrder(t *testing.T) {
	c := newTestCLI(t)
	_, err := c.run("card", "list", "--order", "sideways")
	assert.ErrorContains(t, err, `invalid value "sideways"`)
}
