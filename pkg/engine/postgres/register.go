package postgres

import "github.com/everline-data/sqlbridge/pkg/engine"

func init() {
	engine.Register(engine.Registration{
		Info: engine.AdapterInfo{
			Kind:        engine.PostgreSQL,
			DisplayName: "PostgreSQL",
			Description: "PostgreSQL 12+ via the pgx driver",
		},
		Adapter: Adapter{},
	})
}
