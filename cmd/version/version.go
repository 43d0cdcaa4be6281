package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/denysvitali/plusfind/cmd/root"
)

// Build information. Populated at build-time via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

var short bool

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, build date, Go version and built-in catalog size.`,
	Run: func(cmd *cobra.Command, args []string) {
		if short {
			fmt.Println(Version)
			return
		}
		cat := root.GetCatalog()
		fmt.Printf("plusfind %s\n", Version)
		fmt.Printf("  Commit:     %s\n", Commit)
		fmt.Printf("  Built:      %s\n", Date)
		fmt.Printf("  Go version: %s\n", GoVersion)
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  Catalog:    %d vehicles, %d stations\n", len(cat.Vehicles()), len(cat.Stations()))
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	root.RootCmd.AddCommand(VersionCmd)
}
