package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcouto/centavo/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	// "Operação;Saldo\n" in Windows-1252: ç = 0xE7, ã = 0xE3.
	win1252 := []byte{
		'O', 'p', 'e', 'r', 'a', 0xE7, 0xE3, 'o', ';',
		'S', 'a', 'l', 'd', 'o', '\n',
	}

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "valid utf8 passes through",
			input: []byte("Operação;Saldo\ncafé;1.250,00\n"),
			want:  "Operação;Saldo\ncafé;1.250,00\n",
		},
		{
			name:  "windows-1252 is transcoded",
			input: win1252,
			want:  "Operação;Saldo\n",
		},
		{
			name:  "utf8 bom is stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "Operação;Saldo\n"...),
			want:  "Operação;Saldo\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_UTF16LEBOM(t *testing.T) {
	// "Data;Valor\n" as UTF-16LE with BOM.
	text := "Data;Valor\n"
	input := []byte{0xFF, 0xFE}
	for _, r := range text {
		input = append(input, byte(r), 0x00)
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
