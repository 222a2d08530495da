package mysql

import "github.com/everline-data/sqlbridge/pkg/engine"

func init() {
	engine.Register(engine.Registration{
		Info: engine.AdapterInfo{
			Kind:        engine.MySQL,
			DisplayName: "MySQL",
			Description: "MySQL 8+ and MariaDB",
		},
		Adapter: Adapter{},
	})
}
