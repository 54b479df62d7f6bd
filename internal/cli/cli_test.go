package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `Offert 2024-117
Datum: 2024-03-11
Vår referens: L. Nilsson
Er referens: M. Berg
Kund: Berg & Söner AB
Profil nr / Vikt Längd Kap + truml ca antal Pris
Kund ref. enligt ritning
PX-12 1,342 23,8 0,85 15000 42,50
Pris/st SEK
Verktygskostnad: 25 000 SEK
Legering: Aluminium 6061 T6
Toleranser: ISO 2768-m
Ytbehandling: EN-AW 6063 T5 anodiserad
Lev. längd: 6 m
Lev. villkor: FCA Vetlanda
Lev. tid: 8-10 veckor
NOT: 5000
Betalningsvillkor: 30 dagar netto
Giltighet: 30 dagar
Allmänna villkor: Alumec 06
Råvara: LME 22,40
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "offertpipe version dev")
}

func TestAllStageCommandsRegistered(t *testing.T) {
	want := []string{
		"extract", "format", "structure", "rows", "normalize",
		"variants", "features", "dataset", "run", "watch", "version",
	}
	var got []string
	for _, cmd := range rootCmd.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "offertpipe")
	assert.Contains(t, out, "run")
}

func TestRunCommand_EndToEnd(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "offert_117.txt"), []byte(sampleDocument), 0o644))

	out, err := execute(t, "run",
		"--input", in,
		"--work", work,
		"--variants", strconv.Itoa(1),
		"--seed", "1",
	)
	require.NoError(t, err, out)

	assert.Contains(t, out, "dataset:")
	assert.FileExists(t, filepath.Join(work, "processed_quotes.csv"))
	assert.FileExists(t, filepath.Join(work, "dataset.db"))
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
