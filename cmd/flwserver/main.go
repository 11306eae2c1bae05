/*
Flwserver starts a FLWarrior server and begins listening for new connections.

Usage:

	flwserver [flags]
	flwserver [flags] -l [[ADDRESS]:PORT]

Once started, the FLWarrior server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var). The flag
argument must be either a full address with port, such as "192.168.0.2:6001", or
just the IP address preceeded by a colon, such as ":6001".

The flags are:

	-v, --version
		Give the current version of the FLWarrior server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		FLWARRIOR_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-c, --config FILE
		Read settings from the given TOML file. If not given, will default to
		the value of environment variable FLWARRIOR_CONFIG. Settings given by
		other flags or their environment variables take precedence over those
		in the file.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data director such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable FLWARRIOR_DATABASE. If no DB driver
		is specified or an empty is given, an in-memory database is
		automatically selected.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/flwarrior/internal/version"
	"github.com/dekarrin/flwarrior/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "FLWARRIOR_LISTEN_ADDRESS"
	EnvDB     = "FLWARRIOR_DATABASE"
	EnvConfig = "FLWARRIOR_CONFIG"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of FLWarrior server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (FLWarrior v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()

	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// get address info
	port := 0
	addr := ""
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}

		var err error

		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	// assemble a server config, starting from the config file if there is one
	var cfg server.Config

	configPath := os.Getenv(EnvConfig)
	if pflag.Lookup("config").Changed {
		configPath = *flagConfig
	}
	if configPath != "" {
		var err error
		cfg, err = server.LoadConfigFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		log.Printf("DEBUG Loaded config from %s", configPath)
	}

	// look at db connection string
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err)
			os.Exit(1)
		}
		cfg.DB = db
	}

	if cfg.DB.Type == server.DatabaseNone || cfg.DB.Type == server.DatabaseInMemory {
		log.Printf("WARN  Using in-memory database; everything stored will be lost at shutdown")
	}

	// configuration complete, initialize the server
	fs, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	// okay, now actually launch it
	log.Printf("INFO  Starting FLWarrior server %s...", version.ServerCurrent)
	fs.ServeForever(addr, port)
}
