// Package pinout turns a CubeMX part into a pin out table that can be
// opened with a spreadsheet.
//
// AF parts get one column per alternate function number plus a column for
// additional functions. Remap parts (STM32F1) get one column per
// peripheral, each signal followed by the remap settings that route it to
// the pin:
//
//	Pin,Position,I2C1,TIM1,USART1
//	PA9,30,,TIM1_CH2(0,1),USART1_TX(0)
//	PB6,42,I2C1_SCL(0),,USART1_TX(1)
//
// A SignalFilter built from a rules file shortens and merges signal names
// to keep the table narrow.
package pinout
