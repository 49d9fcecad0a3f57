// Command hashkey prints the bcrypt hash expected in ADMIN_API_KEY_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mercadillo/mercadillo/internal/pkg/auth"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost, 0 uses the library default")
	flag.Parse()

	key := strings.TrimSpace(flag.Arg(0))
	if key == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: hashkey [-cost n] <admin-key>")
			os.Exit(2)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "admin key must not be empty")
		os.Exit(2)
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash key: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
