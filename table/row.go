package table

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// Row is the fixed-width record this store holds: an unsigned primary key
// plus two NUL-padded text fields. Field order and widths are part of the
// on-disk contract and must never change.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

const (
	ColumnUsernameSize = 32
	ColumnEmailSize    = 255

	idSize       = 4
	usernameSize = ColumnUsernameSize + 1 // room for a NUL terminator
	emailSize    = ColumnEmailSize + 1

	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + usernameSize

	// RowSize is the fixed serialized width of a Row: 4 + 33 + 256 = 293.
	RowSize = idSize + usernameSize + emailSize
)

// ErrStringTooLong is returned by Serialize when Username or Email exceeds
// its maximum length.
var ErrStringTooLong = errors.New("table: string is too long")

// Serialize writes r into dst, which must be exactly RowSize bytes.
func (r Row) Serialize(dst []byte) error {
	if len(dst) != RowSize {
		return errors.Errorf("table: serialize dst length %d, want %d", len(dst), RowSize)
	}
	if len(r.Username) > ColumnUsernameSize {
		return errors.Wrapf(ErrStringTooLong, "username %q", r.Username)
	}
	if len(r.Email) > ColumnEmailSize {
		return errors.Wrapf(ErrStringTooLong, "email %q", r.Email)
	}

	for i := range dst {
		dst[i] = 0
	}

	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[usernameOffset:usernameOffset+usernameSize], r.Username)
	copy(dst[emailOffset:emailOffset+emailSize], r.Email)
	return nil
}

// DeserializeRow reads a Row back out of a RowSize-length buffer.
func DeserializeRow(src []byte) (Row, error) {
	if len(src) != RowSize {
		return Row{}, errors.Errorf("table: deserialize src length %d, want %d", len(src), RowSize)
	}

	id := binary.LittleEndian.Uint32(src[idOffset : idOffset+idSize])
	username := trimNUL(src[usernameOffset : usernameOffset+usernameSize])
	email := trimNUL(src[emailOffset : emailOffset+emailSize])

	return Row{ID: id, Username: username, Email: email}, nil
}

func trimNUL(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
