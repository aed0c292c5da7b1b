/*
Mcfgserver starts an HTTP server exposing the MCFG parsing engine over a
REST API.

Usage:

	mcfgserver [flags]

If a JWT token secret is not given, one is generated randomly and seeded from
crypto/rand, in which case every token issued becomes invalid as soon as the
server shuts down. This is suitable for testing, but a secret must be
supplied via flag or environment variable for production use.

The flags are:

	-v, --version
		Print the current version and exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address, in ADDRESS:PORT or :PORT format. Defaults
		to the value of environment variable MCFG_LISTEN_ADDRESS, and if that
		is unset, to ":8080".

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Defaults to the value
		of environment variable MCFG_TOKEN_SECRET. If neither is given, a
		random secret is generated for the lifetime of the process.

	-g, --grammar PATH
		Load an MCFG grammar TOML file and register it under its base file
		name (minus extension) at startup. May be given more than once.

	--history PATH
		Record every parse attempt to a SQLite database at PATH. If not
		given, parse history is not persisted.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mgershovitz/MCFGParser/internal/apiserver"
	"github.com/mgershovitz/MCFGParser/internal/history"
	"github.com/mgershovitz/MCFGParser/internal/mcfgfile"
	"github.com/mgershovitz/MCFGParser/internal/version"
)

const (
	EnvListen = "MCFG_LISTEN_ADDRESS"
	EnvSecret = "MCFG_TOKEN_SECRET"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Print the current version and exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagGrammar = pflag.StringArrayP("grammar", "g", nil, "Load an MCFG grammar TOML file at startup.")
	flagHistory = pflag.String("history", "", "Record parse attempts to a SQLite database at the given path.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("mcfgserver %s\n", version.Current)
		return
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	secretStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secretStr = *flagSecret
	}
	var secret []byte
	if secretStr != "" {
		secret = []byte(secretStr)
	} else {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	}

	var hist *history.Store
	if *flagHistory != "" {
		var err error
		hist, err = history.Open(*flagHistory)
		if err != nil {
			log.Fatalf("FATAL could not open history store: %s", err.Error())
		}
		defer hist.Close()
	}

	srv := apiserver.New(secret, hist)

	for _, path := range *flagGrammar {
		g, err := mcfgfile.Load(path)
		if err != nil {
			log.Fatalf("FATAL could not load grammar %q: %s", path, err.Error())
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		srv.RegisterGrammar(name, g)
		log.Printf("INFO  registered grammar %q from %s", name, path)
	}

	log.Printf("INFO  starting mcfgserver on %s", listenAddr)
	if err := http.ListenAndServe(listenAddr, srv.Router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
