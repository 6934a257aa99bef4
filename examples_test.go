package typedargs_test

import (
	"fmt"

	typedargs "github.com/MartinScharrer/argparse-typed"
)

func Example_readme() {
	type Args struct {
		Name    string
		Age     int
		Verbose bool
	}

	s := typedargs.NewSchema[Args]()
	s.Add("Name", typedargs.NewArgument("-n", "--name").Help("user name"))
	s.Add("Age", typedargs.NewArgument("-a", "--age").Help("age of the user"))
	s.Add("Verbose", typedargs.NewArgument("-v", "--verbose").
		Action(typedargs.StoreTrue).
		Help("enable verbose output"))

	p := typedargs.Must(typedargs.New(s,
		typedargs.WithProg("mytool"),
		typedargs.WithExitOnError(false)))

	args, err := p.ParseArgs([]string{"--name", "Alice", "-a", "30", "-v"})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Name: %s\n", args.Name)
	fmt.Printf("Age: %d\n", args.Age)
	fmt.Printf("Verbose: %t\n", args.Verbose)
	// Output: Name: Alice
	// Age: 30
	// Verbose: true
}

func Example_positionals() {
	type Args struct {
		Src []string
		Dst string
	}

	s := typedargs.NewSchema[Args]()
	s.Add("Src", typedargs.NewArgument("src").
		NArgs(typedargs.OneOrMore).
		Help("source files"))
	s.Add("Dst", typedargs.NewArgument("dst").Help("destination"))

	p := typedargs.Must(typedargs.New(s,
		typedargs.WithProg("cp"),
		typedargs.WithExitOnError(false)))

	args, err := p.ParseArgs([]string{"a.txt", "b.txt", "dir/"})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Src: %v\n", args.Src)
	fmt.Printf("Dst: %s\n", args.Dst)
	// Output: Src: [a.txt b.txt]
	// Dst: dir/
}

func Example_subcommands() {
	type Args struct {
		Cmd   string
		Force bool
		Name  string
	}

	s := typedargs.NewSchema[Args]()
	cmds := typedargs.NewSubparsers().Dest("Cmd").Required(true)
	s.Add("Commands", cmds)

	add := cmds.Parser("add").Help("add an entry")
	s.Add("AddCmd", add)
	s.Add("Name", add.Argument("--name").Help("entry name"))

	rm := cmds.Parser("remove").Aliases("rm").Help("remove an entry")
	s.Add("RemoveCmd", rm)
	s.Add("Force", rm.Argument("-f", "--force").
		Action(typedargs.StoreTrue).
		Help("do not ask"))

	p := typedargs.Must(typedargs.New(s,
		typedargs.WithProg("entries"),
		typedargs.WithExitOnError(false)))

	args, err := p.ParseArgs([]string{"rm", "--force"})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Cmd: %s\n", args.Cmd)
	fmt.Printf("Force: %t\n", args.Force)
	// Output: Cmd: remove
	// Force: true
}

func Example_mutuallyExclusive() {
	type Args struct {
		Json bool
		Csv  bool
	}

	s := typedargs.NewSchema[Args]()
	format := typedargs.MutuallyExclusiveGroup(true).Titled("output format", "")
	s.Add("Format", format)
	s.Add("Json", format.Argument("--json").Action(typedargs.StoreTrue))
	s.Add("Csv", format.Argument("--csv").Action(typedargs.StoreTrue))

	p := typedargs.Must(typedargs.New(s,
		typedargs.WithProg("report"),
		typedargs.WithExitOnError(false)))

	args, err := p.ParseArgs([]string{"--json"})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Json: %t\n", args.Json)

	_, err = p.ParseArgs([]string{"--json", "--csv"})
	fmt.Printf("Both rejected: %t\n", err != nil)
	// Output: Json: true
	// Both rejected: true
}
