// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/docxscan/reportstore"
)

// Create is the docxscan create commandline subcommand
func Create() *cobra.Command {
	return &cobra.Command{
		Use:   "create <store>",
		Short: "Create an empty report store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := reportstore.New(cmd.Flags().Args()[0])
			if err != nil {
				return err
			}
			return store.Close()
		},
	}
}

// Results is the docxscan results commandline subcommand
func Results() *cobra.Command {
	resultsCommand := &cobra.Command{
		Use:   "results",
		Short: "Read scan results from a report store",
	}
	resultsCommand.AddCommand(getCommand(), selectCommand(), allCommand(), searchCommand())
	return resultsCommand
}

func getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> <store>",
		Short: "Retrieve a single result element",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cmd.Flags().Args()[0]
			store, err := openStore(cmd.Flags().Args()[1])
			if err != nil {
				return err
			}
			defer store.Close()
			element, err := store.Get(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", element)
			return nil
		},
	}
}

func selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <type> <store>",
		Short: "Retrieve all result elements of a specific type",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			elementType := cmd.Flags().Args()[0]
			store, err := openStore(cmd.Flags().Args()[1])
			if err != nil {
				return err
			}
			defer store.Close()
			elements, err := store.Select(elementType)
			if err != nil {
				return err
			}
			printElements(elements)
			return nil
		},
	}
}

func allCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all <store>",
		Short: "Retrieve all result elements",
		Args:  cobra.ExactArgs(1), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Flags().Args()[0])
			if err != nil {
				return err
			}
			defer store.Close()
			elements, err := store.All()
			if err != nil {
				return err
			}
			printElements(elements)
			return nil
		},
	}
}

func searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query> <store>",
		Short: "Run a full text search over all result elements",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			query := cmd.Flags().Args()[0]
			store, err := openStore(cmd.Flags().Args()[1])
			if err != nil {
				return err
			}
			defer store.Close()
			elements, err := store.Search(query)
			if err != nil {
				return err
			}
			printElements(elements)
			return nil
		},
	}
}

func openStore(name string) (*reportstore.Store, error) {
	if _, err := os.Stat(name); os.IsNotExist(err) {
		return nil, errors.Wrap(os.ErrNotExist, name)
	}
	return reportstore.Open(name)
}

func printElements(elements []reportstore.JSONElement) {
	raw := make([]json.RawMessage, 0, len(elements))
	for _, element := range elements {
		raw = append(raw, json.RawMessage(element))
	}
	b, _ := json.Marshal(raw)
	fmt.Printf("%s\n", b)
}
