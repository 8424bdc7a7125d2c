package main

import "github.com/KaramelBytes/metricmean-cli/cmd"

func main() {
	cmd.Execute()
}
