// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	ScriptParseErrorId
	ScriptExecutionFailedId
	ScriptsDirNotFoundId
	ConfigLoadFailedId
	InputUnavailableId
	ShellNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

keebi looks for scripts in the scripts directory, named ` + "`<name>.<extension>`" + `.

## Things you can try:
- List the scripts keebi can see:
~~~
$ keebi list
~~~

- Show where the scripts directory is:
~~~
$ keebi config show
~~~

- Point keebi at another directory for one run:
~~~
$ keebi --scripts-dir ./macros login
~~~`,
	}

	scriptParseErrorIssue = &Issue{
		id: ScriptParseErrorId,
		mdMsg: `
# The script could not be compiled!

Scripts are POSIX shell. The error above names the line and column where
parsing stopped.

## Things you can try:
- Check quoting: every ` + "`\"`" + ` and ` + "`'`" + ` must be closed
- Check that ` + "`if`/`fi`" + `, ` + "`do`/`done`" + ` and ` + "`case`/`esac`" + ` are balanced
- Validate without running anything:
~~~
$ keebi check <script>
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# The script failed while running!

A native function reported an error the script did not handle, or the
script exited with a non-zero status.

## Things you can try:
- Handle expected failures in the script:
~~~sh
key nope || echo "falling back"
~~~
- Rehearse the script without touching your keyboard or mouse:
~~~
$ keebi --dry-run -v <script>
~~~`,
	}

	scriptsDirNotFoundIssue = &Issue{
		id: ScriptsDirNotFoundId,
		mdMsg: `
# The scripts directory does not exist!

## Things you can try:
- Create the default configuration and directory:
~~~
$ keebi config init
~~~
- Or set ` + "`scripts.dir`" + ` in your config file to an existing directory`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

keebi reads ` + "`config.cue`" + ` from its configuration directory.

## Things you can try:
- Show the path keebi uses:
~~~
$ keebi config path
~~~
- Check the CUE syntax and field types, for example:
~~~cue
scripts: {
	dir:       "/home/me/macros"
	extension: "sh"
}
log: level: "info"
~~~
- Regenerate a default file (the old one is kept unless you pass --force):
~~~
$ keebi config init
~~~`,
	}

	inputUnavailableIssue = &Issue{
		id: InputUnavailableId,
		mdMsg: `
# Keyboard and mouse simulation is unavailable!

keebi could not open the operating system's input channel.

## Things you can try:
- On Linux, run inside an X11 session (` + "`DISPLAY`" + ` must be set)
- On macOS, grant your terminal Accessibility permission
- Use a build of keebi compiled with cgo enabled
- Rehearse the script instead:
~~~
$ keebi --dry-run <script>
~~~`,
		extLinks: []HttpLink{"https://github.com/go-vgo/robotgo#requirements"},
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# The shell for keebi.exec could not be started!

## Things you can try:
- Make sure ` + "`sh`" + ` (or ` + "`cmd`" + ` on Windows) is on your PATH
- Configure another shell:
~~~cue
shell: {
	command: "bash"
	args: ["-c"]
}
~~~`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():        scriptNotFoundIssue,
		scriptParseErrorIssue.Id():      scriptParseErrorIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		scriptsDirNotFoundIssue.Id():    scriptsDirNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		inputUnavailableIssue.Id():      inputUnavailableIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
	}
)

// Values returns every catalogue entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
