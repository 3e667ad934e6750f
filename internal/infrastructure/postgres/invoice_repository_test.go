package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
)

// fakeRows resultado roteirizado de Query: linhas de colunas string.
type fakeRows struct {
	rows [][]string
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		*(d.(*string)) = row[i]
	}
	return nil
}

// fakeQuerier registra o SQL e os argumentos da última chamada.
type fakeQuerier struct {
	lastSQL  string
	lastArgs []any
	rows     pgx.Rows
	tag      pgconn.CommandTag
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL, q.lastArgs = sql, args
	return q.tag, nil
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.lastSQL, q.lastArgs = sql, args
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL, q.lastArgs = sql, args
	return nil
}

func TestFetchPending_AplicaTetoDeTentativas(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{}}
	repo := NewInvoiceRepository(q)

	_, err := repo.FetchPending(context.Background(), 7, 4)
	require.NoError(t, err)

	require.Len(t, q.lastArgs, 3)
	assert.Equal(t, 7, q.lastArgs[0], "filtro de status")
	assert.Equal(t, AttemptCeiling, q.lastArgs[1],
		"notas no teto de tentativas saem do ciclo automático")
	assert.Equal(t, 4, q.lastArgs[2], "limite do lote")
	assert.Contains(t, q.lastSQL, "tentativa_realizada < $2")
	assert.Contains(t, q.lastSQL, "LIMIT $3")
}

func TestFetchPending_MapeiaLinhaParaEntidade(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]string{
		{"35240811222333000181550010000012341000012349", "2", "FILIAL CAMPINAS",
			"150", "MARIA", "7", "3", "21",
			"Notas de Produtos/Compra para Revenda", "1234"},
	}}}
	repo := NewInvoiceRepository(q)

	invoices, err := repo.FetchPending(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	assert.Equal(t, "FILIAL CAMPINAS", invoices[0].BranchName)
	assert.Equal(t, entity.EntryPurchaseResale, invoices[0].EntryType)
}

func TestFetchPending_LinhaInvalidaEErroDeIntegridade(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]string{
		{"", "2", "FILIAL", "150", "", "", "", "", "Notas de Produtos/Compra para Revenda", "1234"},
	}}}
	repo := NewInvoiceRepository(q)

	_, err := repo.FetchPending(context.Background(), 1, 10)
	require.Error(t, err, "linha sem chave de acesso não vira entidade silenciosa")
}

func TestClaimLaunching_CondicionaAoStatusAnterior(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	repo := NewInvoiceRepository(q)

	claimed, err := repo.ClaimLaunching(context.Background(), "chave", 10, 20)
	require.NoError(t, err)
	assert.False(t, claimed, "nenhuma linha afetada significa claim rejeitado")

	assert.Equal(t, []any{20, "chave", 10}, q.lastArgs,
		"o novo status entra no SET e o anterior no WHERE")
	assert.Contains(t, q.lastSQL, "id_status_lancamento = $3")

	q.tag = pgconn.NewCommandTag("UPDATE 1")
	claimed, err = repo.ClaimLaunching(context.Background(), "chave", 10, 20)
	require.NoError(t, err)
	assert.True(t, claimed)
}
