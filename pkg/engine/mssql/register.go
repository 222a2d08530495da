package mssql

import "github.com/everline-data/sqlbridge/pkg/engine"

func init() {
	engine.Register(engine.Registration{
		Info: engine.AdapterInfo{
			Kind:        engine.SQLServer,
			DisplayName: "Microsoft SQL Server",
			Description: "SQL Server 2019+ and Azure SQL Database",
		},
		Adapter: Adapter{},
	})
}
