package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	gitex "github.com/alnah/go-gitex"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional words
	FilePattern string   // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"style":       {Values: gitex.StyleNames()},
	"date-format": {Values: []string{"iso", "datetime", "european", "us", "long"}},

	"config":         {FileGlob: "*.yaml,*.yml"},
	"manifest":       {FileGlob: "*.db"},
	"preview-output": {FileGlob: "*.html"},
	"output":         {FileGlob: "*.md,*.png"},

	"image-folder": {IsDir: true},
	"asset-path":   {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	cmds := []commandDef{
		{
			Name:        "translate",
			Desc:        "Replace LaTeX in a Markdown file with rendered images",
			Flags:       extractFlagsFromFlagSet(translateFlagSet(&translateFlags{})),
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:  "render",
			Desc:  "Render one formula to a PNG file",
			Flags: extractFlagsFromFlagSet(renderFlagSet(&renderCmdFlags{})),
		},
		{
			Name:  "cache",
			Desc:  "List or prune the render manifest",
			Flags: extractFlagsFromFlagSet(cacheFlagSet(&cacheFlags{})),
			Args:  []string{"list", "prune"},
		},
		{
			Name:  "doctor",
			Desc:  "Check external programs and the environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print JSON"}},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
	}

	names := make([]string, 0, len(cmds)+1)
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	for i := range cmds {
		if cmds[i].Name == "help" {
			cmds[i].Args = append(names, "config")
		}
	}
	return cmds
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()

	var script string
	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	case ShellPowerShell:
		script = powerShellScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}

	err := GenerateCompletion(env.Stdout, Shell(args[0]))
	if errors.Is(err, ErrUnsupportedShell) {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return err
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(gitex completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(gitex completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    gitex completion fish > ~/.config/fish/completions/gitex.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    gitex completion powershell | Out-String | Invoke-Expression")
}

// flagWords returns "--long" and "-s" for every flag.
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, 2*len(flags))
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globs splits a comma separated glob list.
func globs(pattern string) []string {
	if pattern == "" {
		return nil
	}
	return strings.Split(pattern, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}

	b.WriteString("# bash completion for gitex\n\n")
	b.WriteString("_gitex_completions() {\n")
	b.WriteString("    local cur prev cmd i\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"\"\n")
	b.WriteString("    for ((i=1; i<COMP_CWORD; i++)); do\n")
	b.WriteString("        case \"${COMP_WORDS[i]}\" in\n")
	fmt.Fprintf(&b, "            %s) cmd=\"${COMP_WORDS[i]}\"; break ;;\n", strings.Join(names, "|"))
	b.WriteString("        esac\n")
	b.WriteString("    done\n\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		writeBashCommand(&b, c, "")
		b.WriteString("            ;;\n")
	}

	// Without a command name the arguments belong to translate.
	b.WriteString("        *)\n")
	for _, c := range cmds {
		if c.Name == "translate" {
			top := c
			top.Args = names
			writeBashCommand(&b, top, "--help --version")
		}
	}
	b.WriteString("            ;;\n")

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _gitex_completions gitex\n")
	return b.String()
}

func writeBashCommand(b *strings.Builder, c commandDef, extraFlags string) {
	var valueArms []string
	for _, f := range c.Flags {
		if !f.takesValue() {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern = "-" + f.Short + "|" + pattern
		}
		valueArms = append(valueArms, fmt.Sprintf("                %s) %s; return ;;\n", pattern, bashFlagValue(f)))
	}
	if len(valueArms) > 0 {
		b.WriteString("            case \"$prev\" in\n")
		for _, arm := range valueArms {
			b.WriteString(arm)
		}
		b.WriteString("            esac\n")
	}

	words := strings.Join(flagWords(c.Flags), " ")
	if extraFlags != "" {
		words = strings.TrimSpace(words + " " + extraFlags)
	}
	b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(b, "                COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", words)
	if pos := bashPositional(c); pos != "" {
		b.WriteString("            else\n")
		fmt.Fprintf(b, "                COMPREPLY=(%s)\n", pos)
	}
	b.WriteString("            fi\n")
}

func bashFlagValue(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf("COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))", strings.Join(f.Values, " "))
	case flagFile:
		return "COMPREPLY=(" + bashFiles(f.FileGlob) + ")"
	case flagDir:
		return "COMPREPLY=($(compgen -d -- \"$cur\"))"
	case flagInt:
		return "COMPREPLY=()"
	default:
		return "COMPREPLY=($(compgen -f -- \"$cur\"))"
	}
}

func bashPositional(c commandDef) string {
	var parts []string
	if len(c.Args) > 0 {
		parts = append(parts, fmt.Sprintf("$(compgen -W \"%s\" -- \"$cur\")", strings.Join(c.Args, " ")))
	}
	if c.FilePattern != "" {
		parts = append(parts, bashFiles(c.FilePattern))
	}
	return strings.Join(parts, " ")
}

func bashFiles(pattern string) string {
	var parts []string
	for _, g := range globs(pattern) {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"$cur\")", g))
	}
	parts = append(parts, "$(compgen -d -- \"$cur\")")
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes text for a single-quoted _arguments option description.
func zshEscape(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)
	return r.Replace(s)
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef gitex\n\n")
	b.WriteString("_gitex() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )) && [[ \"$words[2]\" != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        _files -g '*.md'\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"$words[2]\"\n")
	b.WriteString("    if (( ! ${commands[(I)$cmd:*]} )); then\n")
	b.WriteString("        cmd=translate\n")
	b.WriteString("    else\n")
	b.WriteString("        shift words\n")
	b.WriteString("        (( CURRENT-- ))\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n                %s", zshFlagSpec(f))
		}
		if pos := zshPositional(c); pos != "" {
			fmt.Fprintf(&b, " \\\n                %s", pos)
		}
		b.WriteString("\n            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _gitex gitex\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	action := ""
	if f.takesValue() {
		action = ":" + f.Long + ":" + zshAction(f)
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return "(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		return zshFiles(f.FileGlob)
	case flagDir:
		return "_directories"
	case flagInt:
		return " "
	default:
		return "_files"
	}
}

func zshFiles(pattern string) string {
	g := globs(pattern)
	if len(g) == 1 {
		return "_files -g \"" + g[0] + "\""
	}
	return "_files -g \"(" + strings.Join(g, "|") + ")\""
}

func zshPositional(c commandDef) string {
	switch {
	case len(c.Args) > 0:
		return "'1:argument:(" + strings.Join(c.Args, " ") + ")'"
	case c.FilePattern != "":
		return "'*:file:" + zshFiles(c.FilePattern) + "'"
	}
	return ""
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for gitex\n\n")
	b.WriteString("function __fish_gitex_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_gitex_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c gitex -n __fish_gitex_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("complete -c gitex -n __fish_gitex_needs_command -l help -d 'Show help'\n")
	b.WriteString("complete -c gitex -n __fish_gitex_needs_command -l version -d 'Show version information'\n")

	for _, c := range cmds {
		b.WriteString("\n")
		cond := fishQuote("__fish_gitex_using_command " + c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c gitex -f -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		}
		for _, f := range c.Flags {
			b.WriteString("complete -c gitex -n " + cond)
			if f.Short != "" {
				b.WriteString(" -s " + f.Short)
			}
			b.WriteString(" -l " + f.Long)
			switch f.Type {
			case flagEnum:
				b.WriteString(" -x -a " + fishQuote(strings.Join(f.Values, " ")))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagInt:
				b.WriteString(" -x")
			case flagFile, flagString:
				b.WriteString(" -r -F")
			}
			b.WriteString(" -d " + fishQuote(f.Desc) + "\n")
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psQuote single-quotes s for PowerShell.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psList(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, psQuote(w))
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# powershell completion for gitex\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName gitex -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psList(flagWords(c.Flags)))
	}
	b.WriteString("    }\n")
	b.WriteString("    $arguments = @{\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psList(c.Args))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $cmd = ''\n")
	b.WriteString("    foreach ($element in ($commandAst.CommandElements | Select-Object -Skip 1)) {\n")
	b.WriteString("        $text = $element.ToString()\n")
	b.WriteString("        if ($text -ne $wordToComplete -and $commands.Contains($text)) { $cmd = $text; break }\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $words = @()\n")
	b.WriteString("    if ($cmd -eq '') {\n")
	b.WriteString("        $cmd = 'translate'\n")
	b.WriteString("        if ($wordToComplete -notlike '-*') { $words += $commands.Keys }\n")
	b.WriteString("    }\n")
	b.WriteString("    if ($wordToComplete -like '-*') {\n")
	b.WriteString("        $words += $flags[$cmd]\n")
	b.WriteString("    } elseif ($arguments.ContainsKey($cmd)) {\n")
	b.WriteString("        $words += $arguments[$cmd]\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $words | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
