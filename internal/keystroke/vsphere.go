package keystroke

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/rileyhilliard/bootkeys/internal/util"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
)

// usbKeyboardPage is the low word vSphere expects in UsbHidCode: the HID
// usage ID goes in the high 16 bits, 0x07 (keyboard page) in the low.
const usbKeyboardPage = 0x07

// VSphere sends keystrokes straight to vCenter with PutUsbScanCodes, with
// no interpreter or script involved. Each Deliver opens and closes its own
// session.
type VSphere struct {
	Server   string
	Username string
	Password string
	Insecure bool
	Log      logger.Logger

	url *url.URL
}

// Prepare parses the server address into an SDK URL carrying the
// credentials. Bad addresses can't improve with retries.
func (v *VSphere) Prepare(ctx context.Context) error {
	u, err := soap.ParseURL(v.Server)
	if err != nil || u == nil {
		if err == nil {
			err = fmt.Errorf("empty server address")
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid vcenter_server %q", v.Server),
			"Use a hostname, IP or https://host/sdk URL")
	}
	u.User = url.UserPassword(v.Username, v.Password)
	v.url = u
	return nil
}

// CheckCodes rejects tokens that aren't numeric HID codes. PutUsbScanCodes
// takes numbers, so names the script would accept can't be forwarded.
func (v *VSphere) CheckCodes(codes []string) error {
	_, err := ScanCodeSpec(codes)
	return err
}

// Deliver logs in, looks the VM up by name and sends the codes in order.
func (v *VSphere) Deliver(ctx context.Context, vmName string, codes []string) Attempt {
	start := time.Now()
	a := Attempt{ExitCode: -1}
	a.Err = v.deliver(ctx, vmName, codes)
	a.Duration = time.Since(start)
	if a.Err == nil {
		a.ExitCode = 0
		a.Stdout = fmt.Sprintf("sent %s to %s\n", util.Count(len(codes), "key", "keys"), vmName)
	}
	return a
}

func (v *VSphere) deliver(ctx context.Context, vmName string, codes []string) error {
	log := v.Log
	if log == nil {
		log = logger.Noop()
	}
	if v.url == nil {
		return errors.New(errors.ErrVSphere, "vCenter URL not resolved", "Prepare must succeed before Deliver")
	}

	spec, err := ScanCodeSpec(codes)
	if err != nil {
		return err
	}

	client, err := govmomi.NewClient(ctx, v.url, v.Insecure)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrVSphere,
			"Couldn't log in to vCenter "+v.url.Host,
			"Check vcenter_server, vcenter_username and vcenter_password")
	}
	defer func() {
		if err := client.Logout(ctx); err != nil {
			log.Debug("vCenter logout: %v", err)
		}
	}()

	vm, err := findVM(ctx, client, vmName)
	if err != nil {
		return err
	}

	log.Debug("sending %d scan code(s) to %s (%s)", len(spec.KeyEvents), vmName, vm.Reference().Value)
	accepted, err := vm.PutUsbScanCodes(ctx, spec)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrVSphere,
			"vCenter rejected the scan codes for "+vmName,
			"Make sure the VM is powered on")
	}
	if int(accepted) != len(spec.KeyEvents) {
		return errors.New(errors.ErrVSphere,
			fmt.Sprintf("vCenter accepted %d of %d key events", accepted, len(spec.KeyEvents)),
			"The console may not be ready yet")
	}
	return nil
}

// findVM searches the whole inventory so VMs in any datacenter or folder
// are found by their display name.
func findVM(ctx context.Context, client *govmomi.Client, name string) (*object.VirtualMachine, error) {
	m := view.NewManager(client.Client)
	cv, err := m.CreateContainerView(ctx, client.ServiceContent.RootFolder, []string{"VirtualMachine"}, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrVSphere, "Couldn't list virtual machines", "")
	}
	defer func() { _ = cv.Destroy(ctx) }()

	var vms []mo.VirtualMachine
	err = cv.RetrieveWithFilter(ctx, []string{"VirtualMachine"}, []string{"name"}, &vms, property.Match{"name": name})
	if err != nil || len(vms) == 0 {
		if err == nil {
			err = fmt.Errorf("no virtual machine named %q", name)
		}
		return nil, errors.WrapWithCode(err, errors.ErrVSphere,
			fmt.Sprintf("VM %q not found", name),
			"Check vm_name matches the inventory name; the VM may still be being created")
	}
	if len(vms) > 1 {
		return nil, errors.New(errors.ErrVSphere,
			fmt.Sprintf("%d VMs are named %q", len(vms), name),
			"Rename the VMs so the name is unique")
	}

	return object.NewVirtualMachine(client.Client, vms[0].Reference()), nil
}

// ScanCodeSpec converts HID code tokens into a PutUsbScanCodes request.
func ScanCodeSpec(codes []string) (types.UsbScanCodeSpec, error) {
	spec := types.UsbScanCodeSpec{}
	for _, tok := range codes {
		code, err := ParseHIDCode(tok)
		if err != nil {
			return spec, err
		}
		spec.KeyEvents = append(spec.KeyEvents, types.UsbScanCodeSpecKeyEvent{
			UsbHidCode: code<<16 | usbKeyboardPage,
		})
	}
	return spec, nil
}
