// httpfixture CLI - record and replay HTTP interactions as fixture files
package main

import "github.com/getmockd/httpfixture/pkg/cli"

func main() {
	cli.Execute()
}
