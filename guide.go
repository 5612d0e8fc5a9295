package main

import (
	"fmt"

	"github.com/fatih/color"
)

// printGuide writes the usage walkthrough shown by --guide.
func printGuide() {
	title := color.New(color.FgGreen, color.Bold)
	section := color.New(color.FgCyan, color.Bold)

	title.Println("COLLECT - USER GUIDE")
	title.Println("====================")
	fmt.Println()

	section.Println("FILTERS:")
	fmt.Println(`  --extension rs,toml    : Only allow .rs and .toml files.
  --no-extension py,js   : Allow everything EXCEPT .py and .js files.
  --regex "Test.*"       : Allow files matching regex.
  --scope path           : Regex applies to the full path instead of the name.

  (--extension and --no-extension are mutually exclusive)`)
	fmt.Println()

	section.Println("CONTENT & LIMITS:")
	fmt.Println(`  --content              : Read and print file content.
  --max-bytes 1000       : Truncate reading after 1000 bytes.
  --depth 2              : Only go 2 folders deep.
  --output file.txt      : Save result to a file.
  --clipboard            : Copy the result to the clipboard.`)
	fmt.Println()

	section.Println("EXCLUDES:")
	fmt.Println(`  Default: respects .gitignore and skips .git, target/, node_modules/
  and hidden files.
  --no-default-excludes  : Scan everything.
  --include-hidden       : Include hidden files.
  --exclude "log,tmp"    : Add custom exclusion patterns.`)
	fmt.Println()

	section.Println("INPUTS:")
	fmt.Println(`  --path DIR             : Scan a local tree (default ".").
  --path URL.git         : Clone a repository and scan it.
  --path https://...     : Fetch a page as Markdown (--traverse-links follows anchors).
  --interactive          : Pick inputs with a fuzzy finder.`)
	fmt.Println()

	section.Println("PERFORMANCE TIPS:")
	fmt.Println(`  - Use --output for large datasets.
  - Binary files are automatically detected and skipped.`)
}
