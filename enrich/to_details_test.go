package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AreaLayer/gdk/scriptutil"
)

func TestDummyInputSizeP2WPKH(t *testing.T) {
	size := dummyInputSize(scriptutil.AddressP2WPKH, 0, 0)
	assert.Equal(t, 1+(1+dummySigSize)+(1+dummyPubkeySize), size)
}

func TestDummyInputSizeP2SHP2WPKH(t *testing.T) {
	size := dummyInputSize(scriptutil.AddressP2SHP2WPKH, 0, 0)
	assert.Equal(t, 1+(1+dummySigSize)+(1+dummyPubkeySize), size)
}

func TestDummyInputSizeMultisigFloorsAtTwoSigners(t *testing.T) {
	witnessScriptLen := 71
	size := dummyInputSize(scriptutil.AddressP2WSH, 1, witnessScriptLen)
	expected := 2 + 2*(1+dummySigSize) + witnessScriptLen
	assert.Equal(t, expected, size)
}

func TestDummyInputSizeMultisigUsesKnownSignerCount(t *testing.T) {
	witnessScriptLen := 71
	size := dummyInputSize(scriptutil.AddressCSV, 3, witnessScriptLen)
	expected := 2 + 3*(1+dummySigSize) + witnessScriptLen
	assert.Equal(t, expected, size)
}

func TestDummyInputSizeDefaultFloorsAtOneSigner(t *testing.T) {
	size := dummyInputSize(scriptutil.AddressP2PKH, 0, 0)
	expected := 1*(1+dummySigSize) + 1*(1+dummyPubkeySize)
	assert.Equal(t, expected, size)
}
