package cubemx

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

// Two pins, one AF signal on PA9 AF7.
const twoPinMCU = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<Mcu Family="STM32F4" Line="STM32F401" Package="UFQFPN48" RefName="STM32F401CCUx" xmlns="http://mcd.rou.st.com/modules.php?name=mcu">
	<Core>Arm Cortex-M4</Core>
	<Frequency>84</Frequency>
	<Ram>64</Ram>
	<Flash>256</Flash>
	<IP InstanceName="GPIO" Name="GPIO" Version="STM32F401_gpio_v1_0"/>
	<Pin Name="PA9" Position="30" Type="I/O">
		<Signal Name="GPIO"/>
		<Signal Name="USART1_TX"/>
	</Pin>
	<Pin Name="VDD" Position="24" Type="Power"/>
</Mcu>
`

const twoPinModes = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<IP DBVersion="V4.0" Name="GPIO" Version="STM32F401_gpio_v1_0" xmlns="http://mcd.rou.st.com/modules.php?name=mcu">
	<GPIO_Pin PortName="PA" Name="PA9">
		<SpecificParameter Name="GPIO_Pin">
			<PossibleValue>GPIO_PIN_9</PossibleValue>
		</SpecificParameter>
		<PinSignal Name="USART1_TX">
			<SpecificParameter Name="GPIO_AF">
				<PossibleValue>GPIO_AF7_USART1</PossibleValue>
			</SpecificParameter>
		</PinSignal>
	</GPIO_Pin>
</IP>
`

const remapMCU = `<?xml version="1.0" encoding="UTF-8"?>
<Mcu Family="STM32F1" Line="STM32F103" Package="LQFP48" RefName="STM32F103C(8-B)Tx">
	<IP Name="GPIO" Version="STM32F103x8_gpio_v1_0"/>
	<Pin Name="PA9" Position="30" Type="I/O">
		<Signal Name="GPIO"/>
		<Signal Name="TIM1_CH2"/>
		<Signal Name="USART1_TX"/>
	</Pin>
	<Pin Name="PB6" Position="42" Type="I/O">
		<Signal Name="GPIO"/>
		<Signal Name="I2C1_SCL"/>
		<Signal Name="USART1_TX"/>
	</Pin>
</Mcu>
`

const remapModes = `<?xml version="1.0" encoding="UTF-8"?>
<IP Name="GPIO" Version="STM32F103x8_gpio_v1_0">
	<GPIO_Pin PortName="PA" Name="PA9">
		<PinSignal Name="TIM1_CH2">
			<RemapBlock Name="TIM1_REMAP0" DefaultRemap="true"/>
			<RemapBlock Name="TIM1_REMAP1"/>
		</PinSignal>
		<PinSignal Name="USART1_TX">
			<RemapBlock Name="USART1_REMAP0" DefaultRemap="true"/>
		</PinSignal>
	</GPIO_Pin>
	<GPIO_Pin PortName="PB" Name="PB6">
		<PinSignal Name="I2C1_SCL">
			<RemapBlock Name="I2C1_REMAP0" DefaultRemap="true"/>
		</PinSignal>
		<PinSignal Name="USART1_TX">
			<RemapBlock Name="USART1_REMAP1"/>
		</PinSignal>
	</GPIO_Pin>
</IP>
`

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

// writeDatabase creates a database directory from a map of relative path to
// raw file content.
func writeDatabase(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "mcu", "IP"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return root
}

func standardDatabase(t *testing.T) string {
	t.Helper()
	return writeDatabase(t, map[string][]byte{
		"mcu/STM32F401CCUx.xml.gz":                       gzipBytes(t, twoPinMCU),
		"mcu/IP/GPIO-STM32F401_gpio_v1_0_Modes.xml.gz":   gzipBytes(t, twoPinModes),
		"mcu/STM32F103C(8-B)Tx.xml.gz":                   gzipBytes(t, remapMCU),
		"mcu/IP/GPIO-STM32F103x8_gpio_v1_0_Modes.xml.gz": gzipBytes(t, remapModes),
		"mcu/families.xml":                               []byte("<Families/>"),
	})
}
