package cli

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"sxtool/sxdbf"
	"sxtool/sxdbf/drecord"
	"sxtool/sxdbf/sxkey"
)

type (
	Args struct {
		Decrypt *DecryptCmd `arg:"subcommand:decrypt"`
		Encrypt *EncryptCmd `arg:"subcommand:encrypt"`
	}
	DecryptCmd struct {
		From  string `arg:"required" help:"path to source table" placeholder:"TABLE.DBF"`
		To    string `arg:"required" help:"path to destination table" placeholder:"PLAIN.DBF"`
		Key   string `arg:"required" help:"table password, up to 8 bytes" placeholder:"PASS"`
		JSON  string `help:"also dump decoded records here" placeholder:"records.json"`
		Force bool   `help:"overwrite the destination file"`
	}
	EncryptCmd struct {
		From  string `arg:"required" help:"path to source table" placeholder:"PLAIN.DBF"`
		To    string `arg:"required" help:"path to destination table" placeholder:"TABLE.DBF"`
		Key   string `arg:"required" help:"table password, up to 8 bytes" placeholder:"PASS"`
		Force bool   `help:"overwrite the destination file"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"A CLI utility to decrypt and re-encrypt SX encrypted DBF tables",
			"in the command line, and to dump their records as JSON.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

func checkPaths(from string, to string, force bool) bool {
	if !CheckExistence(from) {
		println("Source file does not exist!")
		return false
	}
	if CheckExistence(to) && !force {
		println("Destination file existed. Please type the command again with --force to allow overwriting!")
		println("Explicit --force is needed to make sure that you paid attention not to overwriting the actual table in your folder.")
		return false
	}
	return true
}

func dumpRecordsJSON(records []drecord.Record, path string) error {
	maps := lo.Map(
		records,
		func(record drecord.Record, _ int) *orderedmap.OrderedMap {
			return record.ToLinkedHashMap()
		},
	)
	bs, err := json.MarshalIndent(maps, "", "  ")
	if err != nil {
		return errors.Wrap(err, "dumpRecordsJSON error")
	}
	if err := ioutil.WriteFile(path, bs, 0644); err != nil {
		return errors.Wrapf(err, `dumpRecordsJSON error writing to "%s"`, path)
	}
	return nil
}

func StartDecrypting(from string, to string, keyText string, jsonPath string, force bool) {
	if !checkPaths(from, to, force) {
		return
	}
	fileBytes, err := ioutil.ReadFile(from)
	if err != nil {
		println("Error happened reading file at: " + from)
		return
	}
	result, err := sxdbf.Transform(
		fileBytes,
		sxkey.FromText(keyText),
		sxdbf.ModeDecrypt,
		jsonPath != "",
	)
	if err != nil {
		println("Error happened decrypting the table: " + err.Error())
		return
	}
	if err := ioutil.WriteFile(to, result.Bytes, 0644); err != nil {
		println("Error happened writing to file at: " + to)
		return
	}
	if jsonPath != "" {
		if err := dumpRecordsJSON(result.Records, jsonPath); err != nil {
			println("Error happened dumping records: " + err.Error())
			return
		}
	}
	println("Done decrypting (" + result.Status + "). Please check your result file at: " + to)
}

func StartEncrypting(from string, to string, keyText string, force bool) {
	if !checkPaths(from, to, force) {
		return
	}
	fileBytes, err := ioutil.ReadFile(from)
	if err != nil {
		println("Error happened reading file at: " + from)
		return
	}
	result, err := sxdbf.Transform(
		fileBytes,
		sxkey.FromText(keyText),
		sxdbf.ModeEncrypt,
		false,
	)
	if err != nil {
		println("Error happened encrypting the table: " + err.Error())
		return
	}
	if err := ioutil.WriteFile(to, result.Bytes, 0644); err != nil {
		println("Error happened writing to file at: " + to)
		return
	}
	println("Done encrypting (" + result.Status + "). Please check your result file at: " + to)
}

func Start() {
	args := Args{}
	parser := arg.MustParse(&args)

	switch {
	case args.Decrypt != nil:
		StartDecrypting(
			args.Decrypt.From,
			args.Decrypt.To,
			args.Decrypt.Key,
			args.Decrypt.JSON,
			args.Decrypt.Force,
		)
	case args.Encrypt != nil:
		StartEncrypting(
			args.Encrypt.From,
			args.Encrypt.To,
			args.Encrypt.Key,
			args.Encrypt.Force,
		)
	default:
		parser.WriteHelp(os.Stdout)
	}
}
