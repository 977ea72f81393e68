package knowledge_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carlos-israelj/banking-ai-agent/knowledge"
)

func writeCorpus(t *testing.T, entries []knowledge.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faqs.json")
	data, err := json.Marshal(map[string][]knowledge.Entry{"faqs": entries})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testCorpus() []knowledge.Entry {
	return []knowledge.Entry{
		{
			ID: "faq_001", Category: "horarios",
			Question: "¿Cuáles son los horarios de atención?",
			Answer:   "Nuestras agencias atienden de lunes a viernes de 9:00 a 18:00.",
			Keywords: []string{"horario", "hora", "atención"},
		},
		{
			ID: "faq_002", Category: "cuentas",
			Question: "¿Qué necesito para abrir una cuenta?",
			Answer:   "Para abrir una cuenta necesitas tu cédula y una referencia.",
			Keywords: []string{"abrir cuenta", "requisitos"},
		},
		{
			ID: "faq_003", Category: "tarjetas",
			Question: "¿Cómo solicito una tarjeta de crédito?",
			Answer:   "Puedes solicitar tu tarjeta de crédito en cualquier agencia.",
			Keywords: []string{"tarjeta", "crédito"},
		},
	}
}

func TestBase_Search(t *testing.T) {
	ctx := context.Background()
	base, err := knowledge.NewBase(writeCorpus(t, testCorpus()))
	require.NoError(t, err)

	t.Run("keyword match ranks first", func(t *testing.T) {
		got, err := base.Search(ctx, "¿cuál es el horario de las agencias?", 3)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(got, "¿Cuáles son los horarios de atención?"))
		require.Contains(t, got, "lunes a viernes")
	})

	t.Run("deterministic for the same query", func(t *testing.T) {
		first, err := base.Search(ctx, "quiero abrir cuenta", 3)
		require.NoError(t, err)
		second, err := base.Search(ctx, "quiero abrir cuenta", 3)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("no match yields empty result without error", func(t *testing.T) {
		got, err := base.Search(ctx, "xyzzy", 3)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("topK bounds the blocks", func(t *testing.T) {
		got, err := base.Search(ctx, "cuenta tarjeta horario", 1)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		require.Equal(t, 1, len(strings.Split(got, "\n\n")))
	})

	t.Run("query casing does not matter", func(t *testing.T) {
		lower, err := base.Search(ctx, "horario", 3)
		require.NoError(t, err)
		upper, err := base.Search(ctx, "HORARIO", 3)
		require.NoError(t, err)
		require.Equal(t, lower, upper)
	})
}

func TestBase_DefaultCorpus(t *testing.T) {
	base, err := knowledge.NewBase(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	stats := base.Stats()
	require.NotZero(t, stats.TotalEntries)

	got, err := base.Search(context.Background(), "horarios de atención", 3)
	require.NoError(t, err)
	require.NotEmpty(t, got)
}

func TestBase_Add(t *testing.T) {
	path := writeCorpus(t, testCorpus())
	base, err := knowledge.NewBase(path)
	require.NoError(t, err)

	require.NoError(t, base.Add(
		"¿Ofrecen créditos hipotecarios?",
		"Sí, con tasas desde el 8% anual.",
		"creditos",
		[]string{"hipotecario", "crédito hipotecario"},
	))

	got, err := base.Search(context.Background(), "información sobre crédito hipotecario", 3)
	require.NoError(t, err)
	require.Contains(t, got, "hipotecarios")

	// Persisted: a fresh Base sees the new entry.
	reloaded, err := knowledge.NewBase(path)
	require.NoError(t, err)
	require.Equal(t, 4, reloaded.Stats().TotalEntries)
}

func TestBase_Categories(t *testing.T) {
	base, err := knowledge.NewBase(writeCorpus(t, testCorpus()))
	require.NoError(t, err)

	require.Equal(t, []string{"cuentas", "horarios", "tarjetas"}, base.Categories())
	require.Len(t, base.ByCategory("cuentas"), 1)
	require.Empty(t, base.ByCategory("desconocida"))
}
