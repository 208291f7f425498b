package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCleaner apaga de uma tabela de analytics as linhas mais antigas que
// o cutoff. Cada tabela com retenção vira uma instância própria, rodada em
// paralelo pelo orquestrador.
//
// Table e Column entram na query como identificadores: devem vir da
// configuração, nunca de entrada de usuário.
type PostgresCleaner struct {
	pool   *pgxpool.Pool
	table  string
	column string
}

func NewPostgresCleaner(pool *pgxpool.Pool, table string) *PostgresCleaner {
	return &PostgresCleaner{pool: pool, table: table, column: "created_at"}
}

// WithColumn troca a coluna de timestamp usada no corte (padrão created_at).
func (c *PostgresCleaner) WithColumn(column string) *PostgresCleaner {
	c.column = column
	return c
}

func (c *PostgresCleaner) Name() string { return "cleanup:" + c.table }

func (c *PostgresCleaner) Cleanup(ctx context.Context, cutoff time.Time) (int64, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, c.table, c.column)
	ct, err := c.pool.Exec(ctx, sql, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup %s: %w", c.table, err)
	}
	return ct.RowsAffected(), nil
}
