package supply

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipients(t *testing.T) {
	input := strings.Join([]string{
		"# funded on monday",
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"",
		"   ",
		"  0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC  ",
		"not-an-address",
	}, "\n")

	got, err := ParseRecipients(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []Recipient{
		{Index: 2, Raw: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		{Index: 5, Raw: "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"},
		{Index: 6, Raw: "not-an-address"},
	}, got, "indexes are source line numbers so report rows map back to the file")
}

func TestReadRecipients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.txt")
	require.NoError(t, os.WriteFile(path, []byte("0x70997970C51812dc3A010C7d01b50e0d17dc79C8\r\n"), 0644))

	got, err := ReadRecipients(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", got[0].Raw)

	_, err = ReadRecipients(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
