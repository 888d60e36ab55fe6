package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance-scraper/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{Name: "Wool Coat", CurrentPrice: "49.99", OriginalPrice: "200.00", Link: "https://www.marshalls.com/us/store/jump/product/1"},
		{Name: `Lamp, "Brass" 2-pack`, CurrentPrice: "1,020.00", OriginalPrice: "1,500.00", Link: "https://www.marshalls.com/us/store/jump/product/2"},
		{Name: "Multi\nline", CurrentPrice: "5", OriginalPrice: "9", Link: "https://www.marshalls.com/us/store/jump/product/3"},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "products.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(sampleProducts()))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got)
}

func TestCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, NewCSVWriter(path).Write(sampleProducts()[:1]))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"name,current_price,original_price,link\nWool Coat,49.99,200.00,https://www.marshalls.com/us/store/jump/product/1\n",
		string(raw))
}

func TestCSVEmptyListCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	err := NewCSVWriter(path).Write(nil)
	assert.ErrorIs(t, err, ErrNoProducts)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created for an empty list")
}

func TestCSVOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(sampleProducts()))
	require.NoError(t, w.Write(sampleProducts()[:1]))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCSVRespectsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	held := flock.New(path + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	err = NewCSVWriter(path).Write(sampleProducts())
	assert.ErrorIs(t, err, ErrOutputLocked)
}

func TestReadCSVRejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c,d\n1,2,3,4\n"), 0o644))

	_, err := ReadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestCSVFileIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, NewCSVWriter(path).Write(sampleProducts()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCSVWriterPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	var w ProductWriter = NewCSVWriter(path)
	assert.Equal(t, path, w.Path())
}
