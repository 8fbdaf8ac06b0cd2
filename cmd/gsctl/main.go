// Command gsctl is a minimal operator entrypoint for the storage core:
// open an environment, inspect a root, dump its keys, check for missing
// descendants, or inject a raw trie node fetched from a peer. The
// execution engine, RPC layer, and sync tooling are thin clients of the
// storage core and are out of scope here; this tool exists only to
// exercise the core directly, the way cmd/solo exercises a full node.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/muxdb"
	"github.com/globalstate/engine/state"
	"github.com/globalstate/engine/trie"
)

var (
	version   string
	gitCommit string
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gsctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "gsctl"
	app.Usage = "inspect and repair a global-state storage environment"
	app.Version = fmt.Sprintf("%s-%s", orDefault(version, "dev"), gitCommit)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Value: "./gsdata",
			Usage: "environment data directory",
		},
	}
	app.Commands = []cli.Command{
		rootCommand,
		getCommand,
		keysCommand,
		missingCommand,
		putTrieCommand,
	}
	return app
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func openEnv(ctx *cli.Context) (*muxdb.Environment, error) {
	return muxdb.Open(ctx.GlobalString("datadir"), muxdb.Options{})
}

func parseDigest(s string) (digest.Hash, error) {
	return digest.Parse(s)
}

var rootCommand = cli.Command{
	Name:  "root",
	Usage: "print the digest of the canonical empty trie",
	Action: func(ctx *cli.Context) error {
		fmt.Println(state.EmptyRoot().String())
		return nil
	},
}

var getCommand = cli.Command{
	Name:  "get",
	Usage: "read a value by account address under a given root",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "root", Usage: "state root digest"},
		cli.StringFlag{Name: "address", Usage: "32-byte account address, hex"},
	},
	Action: func(ctx *cli.Context) error {
		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		root, err := parseDigest(ctx.String("root"))
		if err != nil {
			return errors.Wrap(err, "parsing --root")
		}
		addrBytes, err := hex.DecodeString(trimHexPrefix(ctx.String("address")))
		if err != nil || len(addrBytes) != 32 {
			return errors.New("--address must be 32 bytes of hex")
		}
		var addr [32]byte
		copy(addr[:], addrBytes)

		gstate, err := state.NewGlobalState(env)
		if err != nil {
			return err
		}
		reader, ok := gstate.Checkout(root)
		if !ok {
			return errors.Errorf("root %s not found", root)
		}
		v, found, err := reader.Read(gs.NewCorrelationID(), gs.NewAccountKey(addr))
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("<not found>")
			return nil
		}
		fmt.Printf("%+v\n", v)
		return nil
	},
}

var keysCommand = cli.Command{
	Name:  "keys",
	Usage: "list the addresses of every key reachable from a root",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "root", Usage: "state root digest"},
	},
	Action: func(ctx *cli.Context) error {
		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		root, err := parseDigest(ctx.String("root"))
		if err != nil {
			return errors.Wrap(err, "parsing --root")
		}
		return env.View(func(tx *muxdb.Tx) error {
			it := trie.Keys(tx.TrieStore(), root)
			for it.Next() {
				fmt.Println(gs.Address(it.Key()).String())
			}
			return it.Err()
		})
	},
}

var missingCommand = cli.Command{
	Name:  "missing",
	Usage: "list digests reachable from a root that are absent from the store",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "root", Usage: "state root digest"},
	},
	Action: func(ctx *cli.Context) error {
		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		root, err := parseDigest(ctx.String("root"))
		if err != nil {
			return errors.Wrap(err, "parsing --root")
		}
		gstate, err := state.NewGlobalState(env)
		if err != nil {
			return err
		}
		missing, err := gstate.MissingDescendantTrieKeys(root)
		if err != nil {
			return err
		}
		for _, d := range missing {
			fmt.Println(d.String())
		}
		return nil
	},
}

var putTrieCommand = cli.Command{
	Name:  "put-trie",
	Usage: "insert a single raw serialised trie node read from a file",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "file", Usage: "path to the raw node bytes"},
	},
	Action: func(ctx *cli.Context) error {
		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		raw, err := os.ReadFile(ctx.String("file"))
		if err != nil {
			return err
		}
		gstate, err := state.NewGlobalState(env)
		if err != nil {
			return err
		}
		if err := gstate.PutTrie(raw); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
