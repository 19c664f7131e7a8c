package emulator_test

import (
	"errors"
	"maps"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/qovm/cpu"
	"github.com/ezrec/qovm/emulator"
)

func load(emu *emulator.Emulator, lines ...string) {
	err := emu.Load(strings.NewReader(strings.Join(lines, "\n")))
	Expect(err).To(BeNil())
	emu.Boot()
}

func word(emu *emulator.Emulator, addr int) cpu.Word {
	value, err := emu.Cpu.Core.Read(addr)
	Expect(err).To(BeNil())
	return value
}

var _ = Describe("Emulator", func() {
	var emu *emulator.Emulator

	Context("with the default configuration", func() {
		BeforeEach(func() {
			var err error
			emu, err = emulator.NewEmulator(nil)
			Expect(err).To(BeNil())
		})

		It("should refuse to run without a program", func() {
			_, err := emu.Tick()
			Expect(errors.Is(err, emulator.ErrNoProgram)).To(BeTrue())
		})

		It("should publish the machine layout", func() {
			defines := maps.Collect(emu.Defines())
			Expect(defines).To(HaveKeyWithValue("DEBUG", "1"))
			Expect(defines).To(HaveKeyWithValue("CORE_SIZE", "0x400"))
			Expect(defines).To(HaveKeyWithValue("FRAMES", "0x380"))
			Expect(defines).To(HaveKeyWithValue("GLOBALS", "0x300"))
		})

		It("should count down to zero", func() {
			load(emu,
				"dl 0003",
				"ds 0030",
				"dil 0030 ; loop",
				"da FFFF",
				"ds 0030",
				"dt 0004",
				"h",
			)

			steps, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(steps).To(Equal(15))
			Expect(emu.Halted()).To(BeTrue())
			Expect(word(emu, 0x30)).To(Equal(cpu.Word(0)))
			Expect(emu.Ticks()).To(Equal(15))
		})

		It("should assemble against the layout", func() {
			load(emu,
				"dl 0007",
				"dgs $(GLOBALS_SIZE - 1) ; last global",
				"h",
			)

			_, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(word(emu, 0x300+0x7f)).To(Equal(cpu.Word(7)))
		})

		It("should append successive loads", func() {
			Expect(emu.Load(strings.NewReader("dl 0001"))).To(Succeed())
			Expect(emu.Load(strings.NewReader("h"))).To(Succeed())
			emu.Boot()

			Expect(emu.Program.Binary()).To(Equal([]cpu.Word{0x0800, 0x0001, 0x9000}))
			steps, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(steps).To(Equal(2))
		})

		It("should report assembler errors", func() {
			err := emu.Load(strings.NewReader("l 05\nq"))
			Expect(errors.Is(err, cpu.ErrCharacterInvalid)).To(BeTrue())

			var syntax *cpu.ErrSyntax
			Expect(errors.As(err, &syntax)).To(BeTrue())
			Expect(syntax.LineNo).To(Equal(2))
		})

		It("should record dumps", func() {
			load(emu, "dl 0042", "u", "h")

			_, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(emu.Dumps).To(HaveLen(1))
			Expect(emu.Dumps[0].Registers.A).To(Equal(cpu.Word(0x42)))

			emu.Boot()
			Expect(emu.Dumps).To(BeEmpty())
		})

		It("should dispatch host services", func() {
			emu.Host[7] = func(cp *cpu.Cpu) error {
				cp.Registers.A *= 2
				return nil
			}
			load(emu, "dl 0021", "dx 0007", "dx 0008", "h")

			_, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(emu.Registers.A).To(Equal(cpu.Word(0x42)))
		})

		It("should stop at the limit", func() {
			load(emu, "dj 0000")

			steps, err := emu.Run(5)
			Expect(err).To(BeNil())
			Expect(steps).To(Equal(5))
			Expect(emu.Halted()).To(BeFalse())
		})

		It("should fault on uninitialized core", func() {
			load(emu, "dj 0100")

			_, err := emu.Run(0)
			Expect(err).NotTo(BeNil())

			var runtime *emulator.ErrRuntime
			Expect(errors.As(err, &runtime)).To(BeTrue())
			Expect(runtime.LineNo).To(Equal(0))
			Expect(runtime.Addr).To(Equal(0x100))
		})
	})

	Context("with a small core", func() {
		BeforeEach(func() {
			var err error
			emu, err = emulator.NewEmulator(&emulator.Config{
				CoreSize: 64,
				Globals:  8,
				Frames:   8,
			})
			Expect(err).To(BeNil())
		})

		It("should boot into the reserved regions", func() {
			load(emu, "h")
			Expect(emu.Registers.G).To(Equal(cpu.Word(48)))
			Expect(emu.Registers.P).To(Equal(cpu.Word(56)))

			emu.Reset()
			Expect(emu.Registers).To(Equal(cpu.Registers{}))
		})

		It("should call and return through the frame", func() {
			load(emu,
				"dl 0005 ; callee",
				"dk 0000",
				"h",
				"dpij 0001 ; return",
			)

			steps, err := emu.Run(0)
			Expect(err).To(BeNil())
			Expect(steps).To(Equal(4))
			Expect(emu.Registers.P).To(Equal(cpu.Word(56)))
			Expect(word(emu, 56)).To(Equal(cpu.Word(56)))
			Expect(word(emu, 57)).To(Equal(cpu.Word(4)))
		})

		It("should locate runtime faults in the source", func() {
			load(emu, "dl 0001", "ds FFFF", "h")

			steps, err := emu.Run(0)
			Expect(steps).To(Equal(1))
			Expect(errors.Is(err, cpu.ErrStoreRange)).To(BeTrue())

			var runtime *emulator.ErrRuntime
			Expect(errors.As(err, &runtime)).To(BeTrue())
			Expect(runtime.LineNo).To(Equal(2))
			Expect(runtime.Addr).To(Equal(2))
			Expect(runtime.Error()).To(ContainSubstring("line 2"))

			var fault *cpu.Fault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.Addr).To(Equal(0xffff))
		})

		It("should report a halted machine", func() {
			load(emu, "h")

			done, err := emu.Tick()
			Expect(err).To(BeNil())
			Expect(done).To(BeTrue())

			_, err = emu.Tick()
			Expect(errors.Is(err, cpu.ErrHalted)).To(BeTrue())
		})
	})

	Context("with a step budget", func() {
		BeforeEach(func() {
			config := emulator.DefaultConfig()
			config.CoreSize = 64
			config.StepBudget = 2

			var err error
			emu, err = emulator.NewEmulator(config)
			Expect(err).To(BeNil())
		})

		It("should stop a runaway program", func() {
			load(emu, "dj 0000")

			steps, err := emu.Run(0)
			Expect(steps).To(Equal(2))
			Expect(errors.Is(err, cpu.ErrStepBudget)).To(BeTrue())
		})
	})

	It("should reject an unusable configuration", func() {
		_, err := emulator.NewEmulator(&emulator.Config{CoreSize: 0x20000})
		Expect(errors.Is(err, cpu.ErrCoreSize)).To(BeTrue())

		_, err = emulator.NewEmulator(&emulator.Config{StepBudget: -1})
		Expect(err).NotTo(BeNil())
	})
})
