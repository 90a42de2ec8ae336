package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/smitenet/smite-panel/config"
)

func showVersion() {
	fmt.Println(config.GetName(), config.GetVersion())
}

// ParseCmd handles the admin/version subcommands. It returns true when a
// subcommand ran and the process should exit instead of starting the panel.
func ParseCmd() bool {
	if len(os.Args) < 2 {
		return false
	}

	switch os.Args[1] {
	case "version":
		showVersion()
		return true
	case "admin":
		adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
		reset := adminCmd.Bool("reset", false, "reset admin credentials to admin/admin")
		show := adminCmd.Bool("show", false, "show current admin credentials")
		username := adminCmd.String("username", "", "set admin username")
		password := adminCmd.String("password", "", "set admin password")
		adminCmd.Parse(os.Args[2:])

		switch {
		case *reset:
			resetAdmin()
		case *show:
			showAdmin()
		case *username != "" || *password != "":
			updateAdmin(*username, *password)
		default:
			adminCmd.Usage()
		}
		return true
	}
	return false
}
