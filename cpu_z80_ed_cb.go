// cpu_z80_ed_cb.go - CB/DD/FD/ED prefixed instruction sets: bit
// operations, IX/IY indexed addressing, and the extended (ED) opcode
// group (block moves/compares/IO, 16-bit ADC/SBC, interrupt-mode
// selection).
//
// Kept as a near-verbatim port of /tmp/stage (IntuitionEngine cpu_z80.go)
// for the same reason as cpu_z80_ops.go: literal Z80 ISA semantics.
package main

func (c *CPUZ80) initCBOps() {
	for i := range c.cbOps {
		c.cbOps[i] = (*CPUZ80).opUnimplemented
	}

	for opcode := 0x00; opcode <= 0x3F; opcode++ {
		op := byte(opcode)
		group := op >> 3
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ80) {
			cpu.opCBRotateShift(group, reg)
		}
	}

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ80) {
			cpu.opCBBIT(bit, reg)
		}
	}

	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ80) {
			cpu.opCBRES(bit, reg)
		}
	}

	for opcode := 0xC0; opcode <= 0xFF; opcode++ {
		op := byte(opcode)
		bit := (op >> 3) & 0x07
		reg := op & 0x07
		c.cbOps[op] = func(cpu *CPUZ80) {
			cpu.opCBSET(bit, reg)
		}
	}
}

func (c *CPUZ80) initDDOps() {
	for i := range c.ddOps {
		c.ddOps[i] = (*CPUZ80).opDDUnimplemented
	}
	c.ddOps[0x21] = (*CPUZ80).opLDIXNN
	c.ddOps[0x22] = (*CPUZ80).opLDNNIX
	c.ddOps[0x2A] = (*CPUZ80).opLDIXNNMem
	c.ddOps[0xE5] = (*CPUZ80).opPUSHIX
	c.ddOps[0xE1] = (*CPUZ80).opPOPIX
	c.ddOps[0xF9] = (*CPUZ80).opLDSPX
	c.ddOps[0x36] = (*CPUZ80).opLDIXdN
	c.ddOps[0x34] = (*CPUZ80).opINCIXd
	c.ddOps[0x35] = (*CPUZ80).opDECIXd
	c.ddOps[0xE9] = (*CPUZ80).opJPIX
	c.ddOps[0xCB] = (*CPUZ80).opDDCBPrefix
	c.ddOps[0xE3] = (*CPUZ80).opEXSPIX
	c.ddOps[0x09] = (*CPUZ80).opADDIXBC
	c.ddOps[0x19] = (*CPUZ80).opADDIXDE
	c.ddOps[0x29] = (*CPUZ80).opADDIXIX
	c.ddOps[0x39] = (*CPUZ80).opADDIXSP
	c.ddOps[0x23] = (*CPUZ80).opINCIX
	c.ddOps[0x2B] = (*CPUZ80).opDECIX

	for opcode := byte(0x46); opcode <= 0x7E; opcode += 0x08 {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		c.ddOps[op] = func(cpu *CPUZ80) {
			cpu.opLDRegIXd(dest)
		}
	}
	for opcode := byte(0x70); opcode <= 0x77; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		src := byte(op & 0x07)
		c.ddOps[op] = func(cpu *CPUZ80) {
			cpu.opLDIXdReg(src)
		}
	}
	for opcode := byte(0x86); opcode <= 0xBE; opcode += 0x08 {
		op := opcode
		alu := aluOp((op >> 3) & 0x07)
		c.ddOps[op] = func(cpu *CPUZ80) {
			cpu.opALUIXd(alu)
		}
	}
}

func (c *CPUZ80) initFDOps() {
	for i := range c.fdOps {
		c.fdOps[i] = (*CPUZ80).opFDUnimplemented
	}
	c.fdOps[0x21] = (*CPUZ80).opLDIYNN
	c.fdOps[0x22] = (*CPUZ80).opLDNNIY
	c.fdOps[0x2A] = (*CPUZ80).opLDIYNNMem
	c.fdOps[0xE5] = (*CPUZ80).opPUSHIY
	c.fdOps[0xE1] = (*CPUZ80).opPOPIY
	c.fdOps[0xF9] = (*CPUZ80).opLDSPY
	c.fdOps[0x36] = (*CPUZ80).opLDIYdN
	c.fdOps[0x34] = (*CPUZ80).opINCIYd
	c.fdOps[0x35] = (*CPUZ80).opDECIYd
	c.fdOps[0xE9] = (*CPUZ80).opJPIY
	c.fdOps[0xCB] = (*CPUZ80).opFDCBPrefix
	c.fdOps[0xE3] = (*CPUZ80).opEXSPIY
	c.fdOps[0x09] = (*CPUZ80).opADDIYBC
	c.fdOps[0x19] = (*CPUZ80).opADDIYDE
	c.fdOps[0x29] = (*CPUZ80).opADDIYIY
	c.fdOps[0x39] = (*CPUZ80).opADDIYSP
	c.fdOps[0x23] = (*CPUZ80).opINCIY
	c.fdOps[0x2B] = (*CPUZ80).opDECIY

	for opcode := byte(0x46); opcode <= 0x7E; opcode += 0x08 {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		c.fdOps[op] = func(cpu *CPUZ80) {
			cpu.opLDRegIYd(dest)
		}
	}
	for opcode := byte(0x70); opcode <= 0x77; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		src := byte(op & 0x07)
		c.fdOps[op] = func(cpu *CPUZ80) {
			cpu.opLDIYdReg(src)
		}
	}
	for opcode := byte(0x86); opcode <= 0xBE; opcode += 0x08 {
		op := opcode
		alu := aluOp((op >> 3) & 0x07)
		c.fdOps[op] = func(cpu *CPUZ80) {
			cpu.opALUIYd(alu)
		}
	}
}

func (c *CPUZ80) initEDOps() {
	for i := range c.edOps {
		c.edOps[i] = (*CPUZ80).opEDUnimplemented
	}

	c.edOps[0x40] = (*CPUZ80).opINBC
	c.edOps[0x48] = (*CPUZ80).opINRC
	c.edOps[0x50] = (*CPUZ80).opINDC
	c.edOps[0x58] = (*CPUZ80).opINEC
	c.edOps[0x60] = (*CPUZ80).opINHC
	c.edOps[0x68] = (*CPUZ80).opINLC
	c.edOps[0x70] = (*CPUZ80).opINCM
	c.edOps[0x78] = (*CPUZ80).opINAC

	c.edOps[0x41] = (*CPUZ80).opOUTBC
	c.edOps[0x49] = (*CPUZ80).opOUTCC
	c.edOps[0x51] = (*CPUZ80).opOUTDC
	c.edOps[0x59] = (*CPUZ80).opOUTEC
	c.edOps[0x61] = (*CPUZ80).opOUTHC
	c.edOps[0x69] = (*CPUZ80).opOUTLC
	c.edOps[0x71] = (*CPUZ80).opOUTC0
	c.edOps[0x79] = (*CPUZ80).opOUTAC

	c.edOps[0x44] = (*CPUZ80).opNEG
	c.edOps[0x4C] = (*CPUZ80).opNEG
	c.edOps[0x54] = (*CPUZ80).opNEG
	c.edOps[0x5C] = (*CPUZ80).opNEG
	c.edOps[0x64] = (*CPUZ80).opNEG
	c.edOps[0x6C] = (*CPUZ80).opNEG
	c.edOps[0x74] = (*CPUZ80).opNEG
	c.edOps[0x7C] = (*CPUZ80).opNEG

	c.edOps[0x47] = (*CPUZ80).opLDIA
	c.edOps[0x4F] = (*CPUZ80).opLDRA
	c.edOps[0x57] = (*CPUZ80).opLDAI
	c.edOps[0x5F] = (*CPUZ80).opLDAR

	c.edOps[0x46] = (*CPUZ80).opIM0
	c.edOps[0x56] = (*CPUZ80).opIM1
	c.edOps[0x5E] = (*CPUZ80).opIM2
	c.edOps[0x66] = (*CPUZ80).opIM0
	c.edOps[0x6E] = (*CPUZ80).opIM0
	c.edOps[0x76] = (*CPUZ80).opIM1
	c.edOps[0x7E] = (*CPUZ80).opIM2

	c.edOps[0x45] = (*CPUZ80).opRETN
	c.edOps[0x4D] = (*CPUZ80).opRETI
	c.edOps[0x55] = (*CPUZ80).opRETN
	c.edOps[0x5D] = (*CPUZ80).opRETN
	c.edOps[0x65] = (*CPUZ80).opRETN
	c.edOps[0x6D] = (*CPUZ80).opRETN
	c.edOps[0x75] = (*CPUZ80).opRETN
	c.edOps[0x7D] = (*CPUZ80).opRETN

	c.edOps[0x67] = (*CPUZ80).opRRD
	c.edOps[0x6F] = (*CPUZ80).opRLD

	c.edOps[0xA0] = (*CPUZ80).opLDI
	c.edOps[0xB0] = (*CPUZ80).opLDIR
	c.edOps[0xA8] = (*CPUZ80).opLDD
	c.edOps[0xB8] = (*CPUZ80).opLDDR
	c.edOps[0xA1] = (*CPUZ80).opCPI
	c.edOps[0xB1] = (*CPUZ80).opCPIR
	c.edOps[0xA9] = (*CPUZ80).opCPD
	c.edOps[0xB9] = (*CPUZ80).opCPDR
	c.edOps[0xA2] = (*CPUZ80).opINI
	c.edOps[0xB2] = (*CPUZ80).opINIR
	c.edOps[0xAA] = (*CPUZ80).opIND
	c.edOps[0xBA] = (*CPUZ80).opINDR
	c.edOps[0xA3] = (*CPUZ80).opOUTI
	c.edOps[0xB3] = (*CPUZ80).opOTIR
	c.edOps[0xAB] = (*CPUZ80).opOUTD
	c.edOps[0xBB] = (*CPUZ80).opOTDR

	c.edOps[0x43] = (*CPUZ80).opLDNNBC
	c.edOps[0x4B] = (*CPUZ80).opLDBCNNED
	c.edOps[0x53] = (*CPUZ80).opLDNNDE
	c.edOps[0x5B] = (*CPUZ80).opLDDENNED
	c.edOps[0x63] = (*CPUZ80).opLDNNHLed
	c.edOps[0x6B] = (*CPUZ80).opLDHLNNed
	c.edOps[0x73] = (*CPUZ80).opLDNNSP
	c.edOps[0x7B] = (*CPUZ80).opLDSPNNED

	c.edOps[0x4A] = (*CPUZ80).opADCHLBC
	c.edOps[0x5A] = (*CPUZ80).opADCHLDE
	c.edOps[0x6A] = (*CPUZ80).opADCHLHL
	c.edOps[0x7A] = (*CPUZ80).opADCHLSP
	c.edOps[0x42] = (*CPUZ80).opSBCHLBC
	c.edOps[0x52] = (*CPUZ80).opSBCHLDE
	c.edOps[0x62] = (*CPUZ80).opSBCHLHL
	c.edOps[0x72] = (*CPUZ80).opSBCHLSP
}

func (c *CPUZ80) opEDUnimplemented() {
	c.tick(8)
}

func (c *CPUZ80) opDDUnimplemented() {
	c.tick(4)
	c.baseOps[c.prefixOpcode](c)
}

func (c *CPUZ80) opFDUnimplemented() {
	c.tick(4)
	c.baseOps[c.prefixOpcode](c)
}

func (c *CPUZ80) opLDIXNN() {
	c.IX = c.fetchWord()
	c.tick(14)
}

func (c *CPUZ80) opLDNNIX() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IX))
	c.write(addr+1, byte(c.IX>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDIXNNMem() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.IX = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opPUSHIX() {
	c.pushWord(c.IX)
	c.tick(15)
}

func (c *CPUZ80) opPOPIX() {
	c.IX = c.popWord()
	c.tick(14)
}

func (c *CPUZ80) opLDSPX() {
	c.SP = c.IX
	c.tick(10)
}

func (c *CPUZ80) opLDIXdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	addr := uint16(int32(c.IX) + int32(disp))
	c.write(addr, value)
	c.tick(19)
}

func (c *CPUZ80) opINCIXd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ80) opDECIXd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ80) opJPIX() {
	c.PC = c.IX
	c.WZ = c.PC
	c.tick(8)
}

func (c *CPUZ80) opEXSPIX() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	c.write(c.SP, byte(c.IX))
	c.write(c.SP+1, byte(c.IX>>8))
	c.IX = memVal
	c.WZ = memVal
	c.tick(23)
}

func (c *CPUZ80) opADDIXBC() {
	c.addIX(c.BC())
	c.tick(15)
}

func (c *CPUZ80) opADDIXDE() {
	c.addIX(c.DE())
	c.tick(15)
}

func (c *CPUZ80) opADDIXIX() {
	c.addIX(c.IX)
	c.tick(15)
}

func (c *CPUZ80) opADDIXSP() {
	c.addIX(c.SP)
	c.tick(15)
}

func (c *CPUZ80) opINCIX() {
	c.IX++
	c.tick(10)
}

func (c *CPUZ80) opDECIX() {
	c.IX--
	c.tick(10)
}

func (c *CPUZ80) opLDIYNN() {
	c.IY = c.fetchWord()
	c.tick(14)
}

func (c *CPUZ80) opLDNNIY() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IY))
	c.write(addr+1, byte(c.IY>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDIYNNMem() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.IY = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opPUSHIY() {
	c.pushWord(c.IY)
	c.tick(15)
}

func (c *CPUZ80) opPOPIY() {
	c.IY = c.popWord()
	c.tick(14)
}

func (c *CPUZ80) opLDSPY() {
	c.SP = c.IY
	c.tick(10)
}

func (c *CPUZ80) opLDIYdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	addr := uint16(int32(c.IY) + int32(disp))
	c.write(addr, value)
	c.tick(19)
}

func (c *CPUZ80) opINCIYd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ80) opDECIYd() {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(23)
}

func (c *CPUZ80) opJPIY() {
	c.PC = c.IY
	c.WZ = c.PC
	c.tick(8)
}

func (c *CPUZ80) opEXSPIY() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	c.write(c.SP, byte(c.IY))
	c.write(c.SP+1, byte(c.IY>>8))
	c.IY = memVal
	c.WZ = memVal
	c.tick(23)
}

func (c *CPUZ80) opADDIYBC() {
	c.addIY(c.BC())
	c.tick(15)
}

func (c *CPUZ80) opADDIYDE() {
	c.addIY(c.DE())
	c.tick(15)
}

func (c *CPUZ80) opADDIYIY() {
	c.addIY(c.IY)
	c.tick(15)
}

func (c *CPUZ80) opADDIYSP() {
	c.addIY(c.SP)
	c.tick(15)
}

func (c *CPUZ80) opINCIY() {
	c.IY++
	c.tick(10)
}

func (c *CPUZ80) opDECIY() {
	c.IY--
	c.tick(10)
}

func (c *CPUZ80) opLDRegIXd(dest byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.writeReg8Plain(dest, c.read(addr))
	c.tick(19)
}

func (c *CPUZ80) opLDIXdReg(src byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.write(addr, c.readReg8Plain(src))
	c.tick(19)
}

func (c *CPUZ80) opALUIXd(op aluOp) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IX) + int32(disp))
	c.performALU(op, c.read(addr))
	c.tick(19)
}

func (c *CPUZ80) opLDRegIYd(dest byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.writeReg8Plain(dest, c.read(addr))
	c.tick(19)
}

func (c *CPUZ80) opLDIYdReg(src byte) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.write(addr, c.readReg8Plain(src))
	c.tick(19)
}

func (c *CPUZ80) opALUIYd(op aluOp) {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.IY) + int32(disp))
	c.performALU(op, c.read(addr))
	c.tick(19)
}

func (c *CPUZ80) inRegC(dest *byte) {
	value := c.in(c.BC())
	*dest = value
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPUZ80) outRegC(value byte) {
	c.out(c.BC(), value)
	c.tick(12)
}

func (c *CPUZ80) opINBC() {
	c.inRegC(&c.B)
}

func (c *CPUZ80) opINRC() {
	c.inRegC(&c.C)
}

func (c *CPUZ80) opINDC() {
	c.inRegC(&c.D)
}

func (c *CPUZ80) opINEC() {
	c.inRegC(&c.E)
}

func (c *CPUZ80) opINHC() {
	c.inRegC(&c.H)
}

func (c *CPUZ80) opINLC() {
	c.inRegC(&c.L)
}

func (c *CPUZ80) opINAC() {
	c.inRegC(&c.A)
}

func (c *CPUZ80) opINCM() {
	value := c.in(c.BC())
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPUZ80) opOUTBC() {
	c.outRegC(c.B)
}

func (c *CPUZ80) opOUTCC() {
	c.outRegC(c.C)
}

func (c *CPUZ80) opOUTDC() {
	c.outRegC(c.D)
}

func (c *CPUZ80) opOUTEC() {
	c.outRegC(c.E)
}

func (c *CPUZ80) opOUTHC() {
	c.outRegC(c.H)
}

func (c *CPUZ80) opOUTLC() {
	c.outRegC(c.L)
}

func (c *CPUZ80) opOUTAC() {
	c.outRegC(c.A)
}

func (c *CPUZ80) opOUTC0() {
	c.outRegC(0x00)
}

func (c *CPUZ80) opNEG() {
	a := c.A
	res := byte(0 - int(a))
	c.A = res
	c.F = z80FlagN
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if a&0x0F != 0 {
		c.F |= z80FlagH
	}
	if a == 0x80 {
		c.F |= z80FlagPV
	}
	if a != 0 {
		c.F |= z80FlagC
	}
	c.F |= res & (z80FlagX | z80FlagY)
	c.tick(8)
}

func (c *CPUZ80) opLDIA() {
	c.I = c.A
	c.tick(9)
}

func (c *CPUZ80) opLDRA() {
	c.R = c.A
	c.tick(9)
}

func (c *CPUZ80) opLDAI() {
	c.A = c.I
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *CPUZ80) opLDAR() {
	c.A = c.R
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *CPUZ80) opIM0() {
	c.IM = 0
	c.tick(8)
}

func (c *CPUZ80) opIM1() {
	c.IM = 1
	c.tick(8)
}

func (c *CPUZ80) opIM2() {
	c.IM = 2
	c.tick(8)
}

func (c *CPUZ80) opRETN() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPUZ80) opRETI() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPUZ80) opRRD() {
	addr := c.HL()
	value := c.read(addr)
	c.write(addr, (value>>4)|(c.A<<4))
	c.A = (c.A & 0xF0) | (value & 0x0F)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *CPUZ80) opRLD() {
	addr := c.HL()
	value := c.read(addr)
	c.write(addr, (value<<4)|(c.A&0x0F))
	c.A = (c.A & 0xF0) | (value >> 4)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *CPUZ80) opLDI() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() + 1)
	c.SetDE(c.DE() + 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.updateLDIFlags(value, bc)
	c.tick(16)
}

func (c *CPUZ80) opLDIR() {
	c.opLDI()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opLDD() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() - 1)
	c.SetDE(c.DE() - 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.updateLDIFlags(value, bc)
	c.tick(16)
}

func (c *CPUZ80) opLDDR() {
	c.opLDD()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opCPI() {
	value := c.read(c.HL())
	c.SetHL(c.HL() + 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.subA(value, 0, false)
	if bc != 0 {
		c.F |= z80FlagPV
	} else {
		c.F &^= z80FlagPV
	}
	c.tick(16)
}

func (c *CPUZ80) opCPIR() {
	c.opCPI()
	if c.BC() != 0 && !c.Flag(z80FlagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opCPD() {
	value := c.read(c.HL())
	c.SetHL(c.HL() - 1)
	bc := c.BC() - 1
	c.SetBC(bc)
	c.subA(value, 0, false)
	if bc != 0 {
		c.F |= z80FlagPV
	} else {
		c.F &^= z80FlagPV
	}
	c.tick(16)
}

func (c *CPUZ80) opCPDR() {
	c.opCPD()
	if c.BC() != 0 && !c.Flag(z80FlagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opINI() {
	port := c.BC()
	value := c.in(port)
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ80) opINIR() {
	c.opINI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opIND() {
	port := c.BC()
	value := c.in(port)
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ80) opINDR() {
	c.opIND()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opOUTI() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ80) opOTIR() {
	c.opOUTI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opOUTD() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPUZ80) opOTDR() {
	c.opOUTD()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPUZ80) opLDNNBC() {
	addr := c.fetchWord()
	value := c.BC()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDBCNNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetBC(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDNNDE() {
	addr := c.fetchWord()
	value := c.DE()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDDENNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetDE(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDNNHLed() {
	addr := c.fetchWord()
	value := c.HL()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDHLNNed() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetHL(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDNNSP() {
	addr := c.fetchWord()
	c.write(addr, byte(c.SP))
	c.write(addr+1, byte(c.SP>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opLDSPNNED() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SP = uint16(high)<<8 | uint16(low)
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPUZ80) opADCHLBC() {
	c.adcHL(c.BC())
	c.tick(15)
}

func (c *CPUZ80) opADCHLDE() {
	c.adcHL(c.DE())
	c.tick(15)
}

func (c *CPUZ80) opADCHLHL() {
	c.adcHL(c.HL())
	c.tick(15)
}

func (c *CPUZ80) opADCHLSP() {
	c.adcHL(c.SP)
	c.tick(15)
}

func (c *CPUZ80) opSBCHLBC() {
	c.sbcHL(c.BC())
	c.tick(15)
}

func (c *CPUZ80) opSBCHLDE() {
	c.sbcHL(c.DE())
	c.tick(15)
}

func (c *CPUZ80) opSBCHLHL() {
	c.sbcHL(c.HL())
	c.tick(15)
}

func (c *CPUZ80) opSBCHLSP() {
	c.sbcHL(c.SP)
	c.tick(15)
}

func (c *CPUZ80) opDDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchOpcode()
	addr := uint16(int32(c.IX) + int32(disp))
	c.cbOpsIndexed(addr, opcode, disp)
}

func (c *CPUZ80) opFDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchOpcode()
	addr := uint16(int32(c.IY) + int32(disp))
	c.cbOpsIndexed(addr, opcode, disp)
}

func (c *CPUZ80) cbOpsIndexed(addr uint16, opcode byte, disp int8) {
	group := opcode >> 6
	switch group {
	case 0:
		c.cbIndexedRotateShift(addr, opcode)
	case 1:
		c.cbIndexedBIT(addr, opcode)
	case 2:
		c.cbIndexedRES(addr, opcode)
	case 3:
		c.cbIndexedSET(addr, opcode)
	}
}

func (c *CPUZ80) cbIndexedRotateShift(addr uint16, opcode byte) {
	value := c.read(addr)
	reg := opcode & 0x07
	group := (opcode >> 3) & 0x07
	var res byte
	var carry bool

	switch group {
	case 0: // RLC
		carry = value&0x80 != 0
		res = value<<1 | value>>7
	case 1: // RRC
		carry = value&0x01 != 0
		res = value>>1 | value<<7
	case 2: // RL
		res, carry = c.rotate8Left(value, c.Flag(z80FlagC))
	case 3: // RR
		res, carry = c.rotate8Right(value, c.Flag(z80FlagC))
	case 4: // SLA
		res, carry = c.shiftLeftArithmetic(value)
	case 5: // SRA
		res, carry = c.shiftRightArithmetic(value)
	case 6: // SLL (undocumented)
		res, carry = c.shiftLeftArithmetic(value)
		res |= 0x01
	case 7: // SRL
		res, carry = c.shiftRightLogical(value)
	}

	c.F &^= z80FlagN | z80FlagH | z80FlagC
	if carry {
		c.F |= z80FlagC
	}
	c.setSZPFlags(res)

	c.write(addr, res)
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ80) cbIndexedBIT(addr uint16, opcode byte) {
	value := c.read(addr)
	bit := (opcode >> 3) & 0x07
	mask := byte(1 << bit)
	c.F &^= z80FlagN | z80FlagZ | z80FlagS | z80FlagPV | z80FlagX | z80FlagY
	c.F |= z80FlagH
	if value&mask == 0 {
		c.F |= z80FlagZ | z80FlagPV
	}
	if bit == 7 && value&mask != 0 {
		c.F |= z80FlagS
	}
	c.F |= value & (z80FlagX | z80FlagY)
	c.tick(20)
}

func (c *CPUZ80) cbIndexedRES(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	res := c.read(addr) &^ (1 << bit)
	c.write(addr, res)
	reg := opcode & 0x07
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ80) cbIndexedSET(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	res := c.read(addr) | (1 << bit)
	c.write(addr, res)
	reg := opcode & 0x07
	if reg != 6 {
		c.writeReg8Plain(reg, res)
	}
	c.tick(23)
}

func (c *CPUZ80) opCBRotateShift(group, reg byte) {
	value := c.readReg8(reg)
	var res byte
	var carry bool
	switch group {
	case 0: // RLC
		carry = value&0x80 != 0
		res = value<<1 | value>>7
	case 1: // RRC
		carry = value&0x01 != 0
		res = value>>1 | value<<7
	case 2: // RL
		res, carry = c.rotate8Left(value, c.Flag(z80FlagC))
	case 3: // RR
		res, carry = c.rotate8Right(value, c.Flag(z80FlagC))
	case 4: // SLA
		res, carry = c.shiftLeftArithmetic(value)
	case 5: // SRA
		res, carry = c.shiftRightArithmetic(value)
	case 6: // SLL (undocumented)
		res, carry = c.shiftLeftArithmetic(value)
		res |= 0x01
	case 7: // SRL
		res, carry = c.shiftRightLogical(value)
	}

	c.writeReg8(reg, res)
	c.F &^= z80FlagN | z80FlagH | z80FlagC
	if carry {
		c.F |= z80FlagC
	}
	c.setSZPFlags(res)

	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ80) opCBBIT(bit, reg byte) {
	value := c.readReg8(reg)
	mask := byte(1 << bit)
	c.F &^= z80FlagN | z80FlagZ | z80FlagS | z80FlagPV | z80FlagX | z80FlagY
	c.F |= z80FlagH
	if value&mask == 0 {
		c.F |= z80FlagZ | z80FlagPV
	}
	if bit == 7 && value&mask != 0 {
		c.F |= z80FlagS
	}
	if reg == 6 {
		c.F |= (byte(value) & (z80FlagX | z80FlagY))
		c.tick(12)
	} else {
		c.F |= byte(value) & (z80FlagX | z80FlagY)
		c.tick(8)
	}
}

func (c *CPUZ80) opCBRES(bit, reg byte) {
	value := c.readReg8(reg)
	res := value &^ (1 << bit)
	c.writeReg8(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ80) opCBSET(bit, reg byte) {
	value := c.readReg8(reg)
	res := value | (1 << bit)
	c.writeReg8(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ80) jpCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.PC = addr
	}
	c.tick(10)
}

func (c *CPUZ80) jrCond(cond bool) {
	disp := int8(c.fetchByte())
	if cond {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(12)
	} else {
		c.tick(7)
	}
}

func (c *CPUZ80) callCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.pushWord(c.PC)
		c.PC = addr
		c.tick(17)
	} else {
		c.tick(10)
	}
}

func (c *CPUZ80) retCond(cond bool) {
	if cond {
		c.PC = c.popWord()
		c.tick(11)
	} else {
		c.tick(5)
	}
}

func (c *CPUZ80) fetchWord() uint16 {
	low := c.fetchByte()
	high := c.fetchByte()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPUZ80) pushWord(value uint16) {
	c.SP--
	c.write(c.SP, byte(value>>8))
	c.SP--
	c.write(c.SP, byte(value))
}

func (c *CPUZ80) popWord() uint16 {
	low := c.read(c.SP)
	c.SP++
	high := c.read(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}

func (c *CPUZ80) performALU(op aluOp, value byte) {
	switch op {
	case aluAdd:
		c.addA(value, 0)
	case aluAdc:
		carry := byte(0)
		if c.Flag(z80FlagC) {
			carry = 1
		}
		c.addA(value, carry)
	case aluSub:
		c.subA(value, 0, true)
	case aluSbc:
		carry := byte(0)
		if c.Flag(z80FlagC) {
			carry = 1
		}
		c.subA(value, carry, true)
	case aluAnd:
		c.andA(value)
	case aluXor:
		c.xorA(value)
	case aluOr:
		c.orA(value)
	case aluCp:
		c.subA(value, 0, false)
	}
}

func (c *CPUZ80) addA(value byte, carry byte) {
	a := c.A
	sum := uint16(a) + uint16(value) + uint16(carry)
	res := byte(sum)

	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if ((a&0x0F)+(value&0x0F)+carry)&0x10 != 0 {
		c.F |= z80FlagH
	}
	if ((^(a ^ value))&(a^res))&0x80 != 0 {
		c.F |= z80FlagPV
	}
	if sum > 0xFF {
		c.F |= z80FlagC
	}
	c.F |= res & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) subA(value byte, carry byte, store bool) {
	a := c.A
	diff := int(a) - int(value) - int(carry)
	res := byte(diff)

	if store {
		c.A = res
	}

	c.F = z80FlagN
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if int(a&0x0F)-int(value&0x0F)-int(carry) < 0 {
		c.F |= z80FlagH
	}
	if ((a ^ value) & (a ^ res) & 0x80) != 0 {
		c.F |= z80FlagPV
	}
	if diff < 0 {
		c.F |= z80FlagC
	}
	c.F |= res & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) andA(value byte) {
	res := c.A & value
	c.A = res
	c.F = z80FlagH
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(res) {
		c.F |= z80FlagPV
	}
	c.F |= res & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) xorA(value byte) {
	res := c.A ^ value
	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(res) {
		c.F |= z80FlagPV
	}
	c.F |= res & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) orA(value byte) {
	res := c.A | value
	c.A = res
	c.F = 0
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(res) {
		c.F |= z80FlagPV
	}
	c.F |= res & (z80FlagX | z80FlagY)
}

func parity8(value byte) bool {
	value ^= value >> 4
	value ^= value >> 2
	value ^= value >> 1
	return value&1 == 0
}