package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sqlauth/internal/client/cli"
)

func main() {

	err := cli.Execute(context.Background(), os.Args[1:])
	if errors.Is(err, cli.ErrDenied) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

}
