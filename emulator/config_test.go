package emulator_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/qovm/emulator"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "qovm-config")
		Expect(err).To(BeNil())
		DeferCleanup(func() {
			os.RemoveAll(dir)
		})
	})

	write := func(text string) string {
		path := filepath.Join(dir, "config.json")
		Expect(os.WriteFile(path, []byte(text), 0o644)).To(Succeed())
		return path
	}

	It("should provide defaults", func() {
		config := emulator.DefaultConfig()
		Expect(config.CoreSize).To(Equal(uint(1024)))
		Expect(config.Debug).To(BeTrue())
		Expect(config.StepBudget).To(Equal(10000))
		Expect(config.Validate()).To(Succeed())
	})

	It("should keep defaults for missing fields", func() {
		config, err := emulator.LoadConfig(write(`{"core_size": 64, "step_budget": 2}`))
		Expect(err).To(BeNil())
		Expect(config.CoreSize).To(Equal(uint(64)))
		Expect(config.StepBudget).To(Equal(2))
		Expect(config.Debug).To(BeTrue())
		Expect(config.Globals).To(Equal(128))
	})

	It("should read every field", func() {
		config, err := emulator.LoadConfig(write(`{
			"core_size": 256,
			"debug": false,
			"step_budget": 0,
			"signed_offset": true,
			"globals": 16,
			"frames": 32,
			"verbose": true
		}`))
		Expect(err).To(BeNil())
		Expect(*config).To(Equal(emulator.Config{
			CoreSize:     256,
			SignedOffset: true,
			Globals:      16,
			Frames:       32,
			Verbose:      true,
		}))
	})

	It("should reject bad files", func() {
		_, err := emulator.LoadConfig(filepath.Join(dir, "missing.json"))
		Expect(err).NotTo(BeNil())

		_, err = emulator.LoadConfig(write(`{"core_size": `))
		Expect(err).NotTo(BeNil())

		_, err = emulator.LoadConfig(write(`{"frames": -1}`))
		Expect(err).NotTo(BeNil())
	})
})
