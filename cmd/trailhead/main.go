/*
Command trailhead serves a directory of .hcl handler modules.

Usage:

	trailhead [-dir routes] [-hot] [-list]

Every other setting is read from the environment; cf. package ranger.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/dispatch"
	"github.com/xy-planning-network/trailhead/ranger"
	"github.com/xy-planning-network/trailhead/registry"
)

func main() {
	dir := flag.String("dir", trailhead.EnvVarOrString("ROUTES_DIR", ranger.DefaultRoutesDir), "directory of handler modules")
	hot := flag.Bool("hot", false, "reload handler modules whose files change")
	list := flag.Bool("list", false, "print the routes and exit")
	flag.Parse()

	opts := []ranger.RangerOption{ranger.WithRoutesDir(*dir)}
	if *hot {
		opts = append(opts, ranger.WithDispatchOptions(dispatch.WithHot(true)))
	}

	rng, err := ranger.New(opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *list {
		printRoutes(os.Stdout, rng.Routes().Registry)
		return
	}

	if err := rng.Guide(); err != nil {
		rng.Logger().Fatal(err.Error(), nil)
	}
}

func printRoutes(out io.Writer, reg *registry.Registry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tPATH\tCAPABILITIES\tMODULE")
	for _, d := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Role(), d.Label(), strings.Join(d.Capabilities, ","), d.ID)
	}

	tw.Flush()
}
