// Command passwd prints the bcrypt hash for an operator account.
//
//	passwd --email admin@shop.test < password.txt
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/niksmo/shop-admin/internal/adapter/credentials"
	"github.com/spf13/pflag"
)

func main() {
	email := pflag.StringP("email", "e", "", "operator email")
	pflag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "--email flag: required")
		os.Exit(2)
	}

	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		fmt.Fprintln(os.Stderr, "failed to read password from stdin:", err)
		os.Exit(2)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "password is empty")
		os.Exit(2)
	}

	hash, err := credentials.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to hash password:", err)
		os.Exit(1)
	}

	fmt.Printf("- email: %q\n  password_hash: %q\n", *email, hash)
}
