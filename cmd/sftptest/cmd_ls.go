package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwantia/sftptest/content"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/server"
	"github.com/spf13/cobra"
)

func newLsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <content.yaml|sftp://user:pw@host:port/>",
		Short: "Print the recursive listing of a document or a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.HasPrefix(args[0], "sftp://") {
				return listRemote(stdout, args[0])
			}
			return listDocument(stdout, args[0])
		},
	}
}

func listDocument(w io.Writer, path string) error {
	root, err := loadContent(path)
	if err != nil {
		return err
	}

	provider, err := content.NewProvider(root, content.WithLogger(log.Discard()))
	if err != nil {
		return err
	}

	entries, err := provider.Walk("/")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		attrs, err := provider.Stat(entry.Path())
		if err != nil {
			fmt.Fprintf(w, "?          %s\n", entry.Path())
			continue
		}
		printEntry(w, entry.Path(), attrs.FileInfo())
	}
	return nil
}

func listRemote(w io.Writer, rawURL string) error {
	client, err := server.DialURL(rawURL)
	if err != nil {
		return err
	}
	defer client.Close()

	walker := client.Walk("/")
	for walker.Step() {
		if err := walker.Err(); err != nil {
			fmt.Fprintf(w, "?          %s\n", walker.Path())
			continue
		}
		printEntry(w, walker.Path(), walker.Stat())
	}
	return nil
}

func printEntry(w io.Writer, path string, info os.FileInfo) {
	kind := "f"
	if info.IsDir() {
		kind = "d"
	}
	fmt.Fprintf(w, "%s %8d %s\n", kind, info.Size(), path)
}
