package main

import (
	"fmt"
	"os"

	"famicore/emu/log"
	"famicore/ines"
)

var version = "devel"

func main() {
	log.Init(os.Stderr)

	cli := parseArgs(os.Args[1:])
	switch cli.mode {
	case runMode:
		runRom(cli.Run)
	case romInfosMode:
		showRomInfos(cli.RomInfos.RomPath)
	case versionMode:
		fmt.Println("famicore", version)
	}
}

func showRomInfos(path string) {
	rom, err := ines.Open(path)
	checkf(err, "failed to open rom")

	fmt.Printf("mapper:    %03d\n", rom.Mapper())
	fmt.Printf("prg rom:   %dKiB\n", len(rom.PRG)/1024)
	if rom.HasChrRAM() {
		fmt.Printf("chr ram:   8KiB\n")
	} else {
		fmt.Printf("chr rom:   %dKiB\n", len(rom.CHR)/1024)
	}
	fmt.Printf("mirroring: %s\n", rom.Mirroring())
	fmt.Printf("trainer:   %t\n", rom.HasTrainer())
	fmt.Printf("battery:   %t\n", rom.HasPersistent())
}
