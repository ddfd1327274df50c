package table

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSerializeRoundTrip(t *testing.T) {
	buf := make([]byte, RowSize)

	for i := 0; i < 50; i++ {
		r := Row{
			ID:       gofakeit.Uint32(),
			Username: gofakeit.LetterN(uint(gofakeit.Number(0, ColumnUsernameSize))),
			Email:    gofakeit.LetterN(uint(gofakeit.Number(0, ColumnEmailSize))),
		}

		require.NoError(t, r.Serialize(buf))
		got, err := DeserializeRow(buf)
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
}

func TestRowSerializeRejectsWrongBufferSize(t *testing.T) {
	r := Row{ID: 1, Username: "a", Email: "b"}
	err := r.Serialize(make([]byte, RowSize-1))
	require.Error(t, err)
}

func TestRowSerializeRejectsOverlongFields(t *testing.T) {
	buf := make([]byte, RowSize)

	tooLongUsername := Row{ID: 1, Username: strings.Repeat("a", ColumnUsernameSize+1), Email: "b"}
	err := tooLongUsername.Serialize(buf)
	require.ErrorIs(t, err, ErrStringTooLong)

	tooLongEmail := Row{ID: 1, Username: "a", Email: strings.Repeat("b", ColumnEmailSize+1)}
	err = tooLongEmail.Serialize(buf)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestRowSerializeAtMaxLengthSucceeds(t *testing.T) {
	buf := make([]byte, RowSize)
	r := Row{
		ID:       42,
		Username: strings.Repeat("u", ColumnUsernameSize),
		Email:    strings.Repeat("e", ColumnEmailSize),
	}
	require.NoError(t, r.Serialize(buf))

	got, err := DeserializeRow(buf)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Username, got.Username)
	assert.Equal(t, r.Email, got.Email)
}

func TestDeserializeRowRejectsWrongBufferSize(t *testing.T) {
	_, err := DeserializeRow(make([]byte, RowSize+1))
	require.Error(t, err)
}
