// Package cubemx reads the STM32CubeMX pin database.
//
// The database is the "db" directory shipped with CubeMX. Each part is
// described by a gzip-compressed XML document under mcu/, and the alternate
// function or remap information for its GPIO block lives in a separate
// document under mcu/IP/:
//
//	db/mcu/STM32F103C(8-B)Tx.xml.gz
//	db/mcu/IP/GPIO-STM32F103x8_gpio_v1_0_Modes.xml.gz
//
// Open a database, then load a part:
//
//	db, err := cubemx.Open("db")
//	part, err := db.LoadPart("STM32F103C(8-B)Tx")
//	for _, pin := range part.Pins {
//		fmt.Println(pin.Name, pin.Position, len(pin.Signals))
//	}
//
// Failures are reported with the sentinel errors ErrNotFound,
// ErrDecompression and ErrMalformed, which callers test with errors.Is.
package cubemx
