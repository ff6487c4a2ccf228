package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/dexparser"
	"dex-parser-sol/pkg/logger"
)

var (
	inputFile  = flag.String("f", "", "包含 getTransaction JSON 结果的文件路径")
	programs   = flag.String("programs", "", "只解析列出的程序（逗号分隔的 base58 地址）")
	ignores    = flag.String("ignore", "", "跳过列出的程序（逗号分隔的 base58 地址）")
	tryUnknown = flag.Bool("try-unknown", false, "对未注册的顶层程序尝试提取 inner 转账")
	strict     = flag.Bool("strict", false, "单协议解析失败时直接报错退出")
	logLevel   = flag.String("log-level", "warn", "日志级别：debug / info / warn / error")
)

func main() {
	flag.Parse()
	logger.Init(logger.LogOption{Format: "console", Level: *logLevel})
	defer logger.Sync()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "usage: parser -f <tx.json> [-programs a,b] [-ignore c] [-try-unknown] [-strict]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *inputFile, err)
		os.Exit(1)
	}

	var tx rpc.GetTransactionResult
	if err := json.Unmarshal(raw, &tx); err != nil {
		fmt.Fprintf(os.Stderr, "decode %s: %v\n", *inputFile, err)
		os.Exit(1)
	}

	cfg := &core.ParseConfig{
		ProgramIDs:       splitList(*programs),
		IgnoreProgramIDs: splitList(*ignores),
		TryUnknownDEX:    *tryUnknown,
		StrictThrow:      *strict,
	}

	result, err := dexparser.NewDexParser().ParseAll(&tx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
