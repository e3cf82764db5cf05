package main

import (
	"os"
	"strings"

	"github.com/tpetsas/dualsensitive/internal/cmd"
	"github.com/tpetsas/dualsensitive/internal/configpaths"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("dualsensitive"),
		kong.Description("Adaptive-trigger dispatcher for the DualSense controller"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("DUALSENSITIVE_CONFIG"); v != "" {
		return v
	}
	return ""
}
