package main

import (
	"os"

	"github.com/protegeproject/webprotege-revision-manager/lib/loadtest"
	"github.com/protegeproject/webprotege-revision-manager/lib/migration"
	"github.com/protegeproject/webprotege-revision-manager/lib/server"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/utils"
)

func main() {
	setupLogger := utils.SetupLogger("info")
	defer setupLogger.Sync()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			settings.HandleConfigCommand(setupLogger)
		case "loadtest":
			loadtest.RunFromCLI(setupLogger, os.Args[2:])
			return
		case "reindex":
			migration.RunFromCLI(setupLogger, os.Args[2:])
			return
		}
	}

	server.InitServer(setupLogger)
}
