// Command hashpw reads a password from stdin and prints its bcrypt hash, for
// seeding the admins table by hand.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const defaultCost = 12

var errEmptyPassword = errors.New("password must not be empty")

func main() {
	if err := run(os.Stdin, os.Stdout, defaultCost); err != nil {
		log.Fatalf("hashpw: %v", err)
	}
}

func run(in io.Reader, out io.Writer, cost int) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(hash))
	return err
}
