/*pkplot draws the power spectrum files written by an nbody run on a
single log log figure.

    $ pkplot out/pk.000 out/pk.200
    $ pkplot -Out pk.png out/pk.*
*/
package main

import (
	"flag"
	"log"
	"os"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/phil-mansfield/table"
)

func main() {
	out := flag.String("Out", "",
		"File to save the figure to. Default is an interactive window.")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalf("Usage: $ %s [-Out fig.png] pk_file ...", os.Args[0])
	}

	plt.Reset()
	plt.Figure()

	for _, file := range files {
		cols, err := table.ReadTable(file, []int{0, 1}, nil)
		if err != nil {
			log.Fatal(err.Error())
		}
		plt.Plot(cols[0], cols[1], plt.LW(2))
	}

	plt.XScale("log")
	plt.YScale("log")
	plt.XLabel(`$k$ $[h/{\rm Mpc}]$`, plt.FontSize(16))
	plt.YLabel(`$P(k)$ $[({\rm Mpc}/h)^3]$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.Grid(plt.Axis("x"), plt.Which("both"))

	if *out == "" {
		plt.Show()
	} else {
		plt.SaveFig(*out)
	}
	plt.Execute()
}
