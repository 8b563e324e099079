/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package combine

import (
    `log/slog`

    `github.com/cloudwego/gcombine/internal/gmir`
)

// Observer is notified of every change to the instructions of a function.
// Modifications in place are bracketed by ChangingInstr and ChangedInstr.
type Observer interface {
    ErasingInstr(mi *gmir.Instr)
    CreatedInstr(mi *gmir.Instr)
    ChangingInstr(mi *gmir.Instr)
    ChangedInstr(mi *gmir.Instr)
}

// ChangingAllUsesOfReg notifies obs that every user of r is about to change,
// and returns the users so that FinishedChangingAllUsesOfReg can report the
// same set afterwards.
func ChangingAllUsesOfReg(obs Observer, regs *gmir.RegInfo, r gmir.Reg) []*gmir.Instr {
    ins := regs.UseInstrs(r)
    for _, mi := range ins { obs.ChangingInstr(mi) }
    return ins
}

func FinishedChangingAllUsesOfReg(obs Observer, ins []*gmir.Instr) {
    for _, mi := range ins { obs.ChangedInstr(mi) }
}

// ObserverWrapper fans notifications out to a list of observers. It is also
// a gmir.Delegate, so it can be installed on a function to hear about every
// insertion and removal.
type ObserverWrapper struct {
    obs []Observer
}

func NewObserverWrapper(obs ...Observer) *ObserverWrapper {
    return &ObserverWrapper { obs: obs }
}

func (self *ObserverWrapper) AddObserver(obs Observer) {
    self.obs = append(self.obs, obs)
}

func (self *ObserverWrapper) RemoveObserver(obs Observer) {
    for i, v := range self.obs {
        if v == obs {
            self.obs = append(self.obs[:i], self.obs[i + 1:]...)
            return
        }
    }
}

func (self *ObserverWrapper) ErasingInstr(mi *gmir.Instr)  { for _, v := range self.obs { v.ErasingInstr(mi) } }
func (self *ObserverWrapper) CreatedInstr(mi *gmir.Instr)  { for _, v := range self.obs { v.CreatedInstr(mi) } }
func (self *ObserverWrapper) ChangingInstr(mi *gmir.Instr) { for _, v := range self.obs { v.ChangingInstr(mi) } }
func (self *ObserverWrapper) ChangedInstr(mi *gmir.Instr)  { for _, v := range self.obs { v.ChangedInstr(mi) } }

func (self *ObserverWrapper) InstrInserted(mi *gmir.Instr) { self.CreatedInstr(mi) }
func (self *ObserverWrapper) InstrErasing(mi *gmir.Instr)  { self.ErasingInstr(mi) }

// LoggingObserver writes every notification to a logger at debug level.
type LoggingObserver struct {
    log *slog.Logger
}

func NewLoggingObserver(log *slog.Logger) *LoggingObserver {
    return &LoggingObserver { log: log }
}

func (self *LoggingObserver) ErasingInstr(mi *gmir.Instr)  { self.log.Debug("erasing", "instr", mi.String()) }
func (self *LoggingObserver) CreatedInstr(mi *gmir.Instr)  { self.log.Debug("created", "instr", mi.String()) }
func (self *LoggingObserver) ChangingInstr(mi *gmir.Instr) { self.log.Debug("changing", "instr", mi.String()) }
func (self *LoggingObserver) ChangedInstr(mi *gmir.Instr)  { self.log.Debug("changed", "instr", mi.String()) }
