// Command admin-hash prints the bcrypt hash expected in ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		password = flag.String("password", "", "plaintext admin password")
		cost     = flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: admin-hash -password <plaintext> [-cost N]")
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to hash:", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
