package uart

// Register is a logical chip register number. On the I2C bus the register
// sub-address is the register number shifted left by 3.
type Register byte

// Offset returns the I2C sub-address of the register.
func (r Register) Offset() byte {
	return byte(r) << 3
}

// General register set.
const (
	RegTHR     Register = 0x00 // transmit holding (write)
	RegRHR     Register = 0x00 // receive holding (read)
	RegIER     Register = 0x01
	RegFCR     Register = 0x02 // FIFO control (write)
	RegIIR     Register = 0x02 // interrupt identification (read)
	RegLCR     Register = 0x03
	RegMCR     Register = 0x04
	RegLSR     Register = 0x05
	RegMSR     Register = 0x06
	RegTCR     Register = 0x06
	RegSPR     Register = 0x07
	RegTLR     Register = 0x07
	RegTXLVL   Register = 0x08
	RegRXLVL   Register = 0x09
	RegIODir   Register = 0x0A
	RegIOState Register = 0x0B
	RegIOIntEn Register = 0x0C
	RegIOC     Register = 0x0E
	RegEFCR    Register = 0x0F
)

// Special register set, visible while LCR has the divisor latch enabled.
const (
	RegDLL Register = 0x00
	RegDLH Register = 0x01
)

// Enhanced register set, visible while LCR == LCREnableEFRs.
const (
	RegEFR   Register = 0x02
	RegXON1  Register = 0x04
	RegXON2  Register = 0x05
	RegXOFF1 Register = 0x06
	RegXOFF2 Register = 0x07
)

// IER bits.
const (
	IERLineStatus byte = 0x04
	IERSleep      byte = 0x10
)

// FCR bits.
const (
	FCRRxTrigger8  byte = 0x00
	FCRTxTrigger56 byte = 0x30
	FCRResetTx     byte = 0x04
	FCRResetRx     byte = 0x02
	FCREnableFIFO  byte = 0x01
)

// LCR bits.
const (
	LCREnableDivisor byte = 0x80
	LCREnableEFRs    byte = 0xBF
	LCRForceParity   byte = 0x20
	LCREvenParity    byte = 0x10
	LCREnableParity  byte = 0x08
	LCRStopBit       byte = 0x04
	LCRLengthMask    byte = 0x03
)

// EFCR bits.
const (
	EFCRRxDisable byte = 0x02
	EFCR9Bit      byte = 0x01
)

// EFR bits.
const (
	EFRSpecialChar byte = 0x20
)

// LSR bits.
const (
	LSRDataReady byte = 0x01
	LSROverrun   byte = 0x02
	LSRParity    byte = 0x04
	LSRFraming   byte = 0x08
	LSRBreak     byte = 0x10
	LSRTHREmpty  byte = 0x20
	LSRTxEmpty   byte = 0x40
	LSRFIFOError byte = 0x80
)

// TxFIFOSize is the depth of the transmit FIFO.
const TxFIFOSize = 64

// LineStatus is a snapshot of the line status register.
type LineStatus byte

// DataReady reports at least one character in the RX FIFO.
func (s LineStatus) DataReady() bool { return byte(s)&LSRDataReady != 0 }

// Overrun reports an RX overrun.
func (s LineStatus) Overrun() bool { return byte(s)&LSROverrun != 0 }

// ParityError reports a parity error on the character at the top of the RX FIFO.
func (s LineStatus) ParityError() bool { return byte(s)&LSRParity != 0 }

// FramingError reports a framing error on the character at the top of the RX FIFO.
func (s LineStatus) FramingError() bool { return byte(s)&LSRFraming != 0 }

// Break reports a break condition.
func (s LineStatus) Break() bool { return byte(s)&LSRBreak != 0 }

// THREmpty reports an empty transmit holding register.
func (s LineStatus) THREmpty() bool { return byte(s)&LSRTHREmpty != 0 }

// TxEmpty reports that both THR and the transmit shift register are empty.
func (s LineStatus) TxEmpty() bool { return byte(s)&LSRTxEmpty != 0 }

// Noise reports a character that should be discarded as line noise.
func (s LineStatus) Noise() bool { return byte(s)&(LSRBreak|LSRFraming) != 0 }
