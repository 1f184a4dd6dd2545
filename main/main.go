package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/phil-mansfield/gopm"
	"github.com/phil-mansfield/gopm/io"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
		fg.log = nil
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
		fg.prof = nil
	}
}

func main() {
	var (
		nbody, exampleConfig string
		logFile, profFile    string
		threads              int
	)
	vars := map[string]*string{
		"Nbody":         &nbody,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&nbody, "Nbody", "",
		"Configuration file for [nbody] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Nbody'.",
	)
	flag.StringVar(
		&logFile, "Log", "",
		"Location to write log statements to. Default is stderr.",
	)
	flag.StringVar(
		&profFile, "PProf", "",
		"Location to write profile to. Default is no profiling.",
	)
	flag.IntVar(
		&threads, "Threads", 0,
		"Number of worker goroutines. Default is the number of CPUs.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Nbody":
		con, err := io.ReadNbodyConfig(nbody)
		if err != nil {
			log.Println(err.Error())
			os.Exit(1)
		}

		if threads != 0 {
			con.Threads = threads
		}
		if logFile != "" {
			con.LogFile = logFile
		}
		if profFile != "" {
			con.ProfileFile = profFile
		}

		os.Exit(nbodyMain(con))
	case "ExampleConfig":
		switch exampleConfig {
		case "Nbody":
			fmt.Println(io.ExampleNbodyFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Nbody'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// nbodyMain runs a simulation and returns its exit code. The file
// group is closed before returning, so profiles are flushed even when
// the run fails.
func nbodyMain(con *io.NbodyConfig) int {
	fg := &FileGroup{}
	defer fg.Close()

	var err error
	if con.LogFile != "" {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	log.Println("Running nbody main.")

	if con.ProfileFile != "" {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	info, err := gopm.Run(con)
	if err != nil {
		log.Println(err.Error())
		return gopm.StatusCode(err)
	}

	log.Printf("Finished %d steps at a = %.4f.", info.Steps, info.ScaleFactor)
	log.Printf("Wrote %d snapshots and %d power spectra to %s.",
		len(info.Snapshots), len(info.PowerSpectra), con.OutputDir)
	return 0
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gopm_cmd only "+
				"accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}
